package util

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"testing"
)

func TestEasingLookup(t *testing.T) {
	for _, name := range []string{"linear", "in-out-quad", "InOutQuad", "out_cubic"} {
		c, ok := Easing(name)
		if !ok {
			t.Fatalf("Easing(%q) not found", name)
		}
		if math.Abs(c(0)) > 1e-12 || math.Abs(c(1)-1) > 1e-12 {
			t.Errorf("Easing(%q) endpoints = %f, %f, want 0, 1", name, c(0), c(1))
		}
	}
	if _, ok := Easing("bounce-sideways"); ok {
		t.Error("unknown easing should not resolve")
	}
}

func TestTweenLookup(t *testing.T) {
	f, ok := Tween("linear")
	if !ok {
		t.Fatal("linear tween not found")
	}
	// t=1 of d=2, from 10 changing by 20: halfway.
	if got := f(1, 10, 20, 2); math.Abs(float64(got)-20) > 1e-4 {
		t.Errorf("linear tween = %f, want 20", got)
	}
	if len(EasingNames()) != len(curves) {
		t.Errorf("EasingNames() has %d entries, want %d", len(EasingNames()), len(curves))
	}
}

func TestLoggerDefaultsToSilent(t *testing.T) {
	defer SetLogger(nil)

	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("default logger should be disabled")
	}

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Info("hello", "frame", 3)
	if !bytes.Contains(buf.Bytes(), []byte("frame=3")) {
		t.Errorf("log output = %q, want frame=3", buf.String())
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}
