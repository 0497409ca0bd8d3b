package signature

import (
	"context"
	"errors"
	"image"
	"sync"

	"golang.org/x/exp/slog"
)

var (
	ErrSurfaceClosed = errors.New("signature surface closed")
	ErrSeedDiscarded = errors.New("signature seed discarded")
)

// Surface is the drawing state machine: idle until a pointer goes down,
// drawing until it goes up. Every pen-up exports the buffer and publishes it
// as the committed signature.
//
// All methods are safe for concurrent use. A mutex stands in for the single
// UI thread, so pointer events, resizes and seed paints never interleave.
type Surface struct {
	mu sync.Mutex

	sink    Sink
	layout  Rect
	drawing bool
	last    Point

	committed    string
	hasCommitted bool

	// generation changes on Clear and Seed; a preload started for an older
	// generation is dropped
	generation uint64
	closed     bool

	decode func(uri string) (image.Image, error)
	log    *slog.Logger
}

func NewSurface(sink Sink, log *slog.Logger) *Surface {
	return &Surface{
		sink:   sink,
		decode: DecodeImage,
		log:    log.With("component", "signature_surface"),
	}
}

// Layout records where the surface is shown. Pointer events are mapped
// against it.
func (s *Surface) Layout(r Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layout = r
}

func (s *Surface) target() *Target {
	if s.layout.Empty() {
		return nil
	}
	w, h := s.sink.Size()
	return &Target{Rect: s.layout, BufferWidth: w, BufferHeight: h}
}

func (s *Surface) PointerDown(ev PointerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start(Map(ev, s.target()))
}

func (s *Surface) PointerMove(ev PointerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extend(Map(ev, s.target()))
}

func (s *Surface) PointerUp() error {
	return s.End()
}

// PointerOut ends the stroke like a pointer up.
func (s *Surface) PointerOut() error {
	return s.End()
}

// Start puts the pen down at p without marking anything.
func (s *Surface) Start(p Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start(p)
}

func (s *Surface) start(p Point) {
	if s.closed {
		return
	}
	s.drawing = true
	s.last = p
}

// Extend draws from the last point to p. Ignored while idle.
func (s *Surface) Extend(p Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extend(p)
}

func (s *Surface) extend(p Point) {
	if s.closed || !s.drawing {
		return
	}
	s.sink.Segment(s.last, p)
	s.last = p
}

// End lifts the pen and publishes the exported buffer. Ignored while idle.
func (s *Surface) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.drawing {
		return nil
	}
	s.drawing = false

	uri, err := s.sink.Export()
	if err != nil {
		s.log.Error("failed to export signature", "error", err)
		return err
	}
	s.committed = uri
	s.hasCommitted = true
	return nil
}

// Clear erases the buffer and drops the committed signature.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.sink.Clear()
	s.drawing = false
	s.committed = ""
	s.hasCommitted = false
	s.generation++
}

// Resize reinitializes the buffer. Strokes already drawn are lost; the
// committed signature is kept until the next pen-up or Clear.
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.sink.Resize(width, height)
	s.drawing = false
}

func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.Size()
}

// Seed publishes an existing signature as the committed value. The buffer is
// not touched; call Preload to paint it.
func (s *Surface) Seed(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.committed = uri
	s.hasCommitted = uri != ""
	s.generation++
}

// Preload decodes uri and paints it once over the full buffer at its size at
// paint time, so a Resize that lands during the decode gets a stretched seed.
// Decoding runs without the lock. The paint is dropped when the
// surface was closed, cleared or re-seeded in the meantime.
func (s *Surface) Preload(ctx context.Context, uri string) error {
	s.mu.Lock()
	gen := s.generation
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrSurfaceClosed
	}

	img, err := s.decode(uri)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSurfaceClosed
	}
	if s.generation != gen {
		return ErrSeedDiscarded
	}
	s.sink.Paint(img)
	return nil
}

// Committed returns the last published signature.
func (s *Surface) Committed() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed, s.hasCommitted
}

func (s *Surface) Drawing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawing
}

// Close detaches the surface. Later events are ignored and pending preloads
// are discarded.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.drawing = false
}
