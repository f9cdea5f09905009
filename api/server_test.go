package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matt-g-everett/volanim/anim"
	"github.com/matt-g-everett/volanim/state"
	"github.com/matt-g-everett/volanim/timeline"
	"github.com/matt-g-everett/volanim/value"
)

func newTestApi(t *testing.T) *Api {
	t.Helper()
	base := state.New(0, nil, 2)
	base.SetChannelProperty(1, state.IntensityMax, 100)
	r := timeline.NewResolver(base)
	c, err := anim.NewSingleChange(0, 4, 1, state.IntensityMax, value.Literal(200))
	if err != nil {
		t.Fatal(err)
	}
	r.Add(c)
	if err := r.ResolveAll(4); err != nil {
		t.Fatal(err)
	}
	return NewApi(r, "")
}

func get(a *Api, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestStatus(t *testing.T) {
	rec := get(newTestApi(t), "/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var s Status
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatal(err)
	}
	if s != (Status{Resolved: 5, Animations: 1, Channels: 2}) {
		t.Errorf("status = %+v", s)
	}
}

func TestFrame(t *testing.T) {
	rec := get(newTestApi(t), "/frames/2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q", ct)
	}
	var body struct {
		Frame     int
		Transform interface{}
		Channels  [][]float64
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Frame != 2 || body.Transform != nil {
		t.Errorf("frame %d transform %v", body.Frame, body.Transform)
	}
	if len(body.Channels) != 2 || body.Channels[1][state.IntensityMax] != 150 {
		t.Errorf("channels = %v", body.Channels)
	}
}

func TestFrameErrors(t *testing.T) {
	a := newTestApi(t)
	cases := map[string]int{
		"/frames/x":  http.StatusBadRequest,
		"/frames/-1": http.StatusBadRequest,
		"/frames/5":  http.StatusNotFound,
		"/missing":   http.StatusNotFound,
	}
	for path, want := range cases {
		if rec := get(a, path); rec.Code != want {
			t.Errorf("%s: status %d, want %d", path, rec.Code, want)
		}
	}
}
