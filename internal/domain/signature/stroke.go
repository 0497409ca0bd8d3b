package signature

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrEmptyStroke = errors.New("stroke has no points")

// Stroke is a recorded drawing: pointer paths in client coordinates plus the
// box they were captured in. Each path is one pen-down..pen-up.
type Stroke struct {
	Rect  Rect             `json:"rect"`
	Paths [][]PointerEvent `json:"paths"`
}

// ReadStroke parses a JSON stroke recording.
func ReadStroke(r io.Reader) (Stroke, error) {
	var st Stroke
	if err := json.NewDecoder(r).Decode(&st); err != nil {
		return Stroke{}, fmt.Errorf("decode stroke: %w", err)
	}
	return st, nil
}

// Replay drives the recording through the pointer handlers, exactly as live
// input would. An empty rect means the paths are already in buffer pixels.
func (s *Surface) Replay(st Stroke) error {
	rect := st.Rect
	if rect.Empty() {
		w, h := s.Size()
		rect = Rect{Width: float64(w), Height: float64(h)}
	}
	s.Layout(rect)

	replayed := false
	for _, path := range st.Paths {
		if len(path) == 0 {
			continue
		}
		s.PointerDown(path[0])
		for _, ev := range path[1:] {
			s.PointerMove(ev)
		}
		if len(path) == 1 {
			// a tap leaves a dot
			s.PointerMove(path[0])
		}
		if err := s.PointerUp(); err != nil {
			return err
		}
		replayed = true
	}
	if !replayed {
		return ErrEmptyStroke
	}
	return nil
}
