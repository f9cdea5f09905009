// Package timeline resolves the rendering state of each frame from the
// registered animations and the states of earlier frames.
package timeline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/matt-g-everett/volanim/state"
)

// ErrHistoryGap is returned when a frame is requested before all earlier
// frames have been resolved.
var ErrHistoryGap = errors.New("history gap")

// ErrFrameRange is returned for negative frame indices.
var ErrFrameRange = errors.New("frame out of range")

// History is the append-only store of resolved states, indexed by frame.
// Only the Resolver appends; entries are never mutated once stored, so the
// states it returns must be treated as read-only.
type History struct {
	mu     sync.RWMutex
	states []*state.RenderingState
}

// Len returns the number of resolved frames.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.states)
}

// At returns the resolved state of frame.
func (h *History) At(frame int) (*state.RenderingState, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if frame < 0 {
		return nil, fmt.Errorf("frame %d: %w", frame, ErrFrameRange)
	}
	if frame >= len(h.states) {
		return nil, fmt.Errorf("frame %d not resolved (%d resolved): %w", frame, len(h.states), ErrHistoryGap)
	}
	return h.states[frame], nil
}

func (h *History) append(s *state.RenderingState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.Frame() != len(h.states) {
		panic(fmt.Sprintf("timeline: appending frame %d at index %d", s.Frame(), len(h.states)))
	}
	h.states = append(h.states, s)
}

func (h *History) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.states = nil
}
