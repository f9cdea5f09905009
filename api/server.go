// Package api serves a read-only HTTP view of the resolved frames.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/matt-g-everett/volanim/timeline"
)

// Status is the body of GET /status.
type Status struct {
	Resolved   int `json:"resolved"`
	Animations int `json:"animations"`
	Channels   int `json:"channels"`
}

type Api struct {
	history    *timeline.History
	animations int
	channels   int
	mux        *http.ServeMux
}

// NewApi builds the handlers. Only the resolver's history is read once
// serving starts. When staticDir is not empty its files are served at the
// root.
func NewApi(resolver *timeline.Resolver, staticDir string) *Api {
	a := new(Api)
	a.history = resolver.History()
	a.animations = len(resolver.Animations())
	a.channels = resolver.Base().NumChannels()
	a.mux = http.NewServeMux()
	a.mux.HandleFunc("GET /status", a.handleStatus)
	a.mux.HandleFunc("GET /frames/{n}", a.handleFrame)
	if staticDir != "" {
		a.mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return a
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: %v", err)
	}
}

func (a *Api) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, Status{
		Resolved:   a.history.Len(),
		Animations: a.animations,
		Channels:   a.channels,
	})
}

func (a *Api) handleFrame(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		http.Error(w, "bad frame index", http.StatusBadRequest)
		return
	}
	s, err := a.history.At(n)
	switch {
	case errors.Is(err, timeline.ErrFrameRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, s)
}

// Serve listens on addr until the server fails.
func (a *Api) Serve(addr string) error {
	log.Printf("Listening on %s...", addr)
	return http.ListenAndServe(addr, a)
}
