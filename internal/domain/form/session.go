package form

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"attendform/internal/domain/attachment"
	"attendform/internal/domain/signature"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// Session is one open form: hydrated from the store, edited field by field,
// signed on its surface and finally submitted.
type Session interface {
	ID() string
	Variant() Variant
	Key() string
	Edit(field, value string) error
	Attach(f *attachment.File) error
	Detach() error
	Surface() *signature.Surface
	State() State
	// Wait blocks until hydration started by Open has settled.
	Wait() error
	Submit(ctx context.Context) (*Submission, error)
	Close()
}

// State is a read-only snapshot of a session.
type State struct {
	Variant   Variant           `json:"variant"`
	Fields    map[string]string `json:"fields"`
	Document  *Document         `json:"document,omitempty"`
	Signature string            `json:"signature,omitempty"`
	Hydrating bool              `json:"hydrating"`
}

type Document struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Submission is the outcome of a successful Submit.
type Submission struct {
	Key    string
	Route  string
	Record any
}

// Deps are the collaborators of a session. Zero values get defaults.
type Deps struct {
	Navigator Navigator
	Codec     *attachment.Codec
	Log       *slog.Logger
	// Sink replaces the default raster buffer of the signature surface.
	Sink signature.Sink
}

type base struct {
	mu sync.Mutex

	id      string
	variant Variant
	surface *signature.Surface
	nav     Navigator
	codec   *attachment.Codec
	log     *slog.Logger

	group   *errgroup.Group
	hctx    context.Context
	cancel  context.CancelFunc
	pending atomic.Int32
	closed  bool
}

func newBase(ctx context.Context, variant Variant, id string, deps Deps) *base {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", string(variant)+"_form", "form_id", id)

	nav := deps.Navigator
	if nav == nil {
		nav = noopNavigator{}
	}
	codec := deps.Codec
	if codec == nil {
		codec = attachment.NewCodec(attachment.DefaultMaxBytes)
	}
	var sink signature.Sink = deps.Sink
	if sink == nil {
		sink = NewSink(variant)
	}

	// hydration outlives the request that opened the session
	bctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	group, hctx := errgroup.WithContext(bctx)

	return &base{
		id:      id,
		variant: variant,
		surface: signature.NewSurface(sink, log),
		nav:     nav,
		codec:   codec,
		log:     log,
		group:   group,
		hctx:    hctx,
		cancel:  cancel,
	}
}

func (b *base) ID() string {
	return b.id
}

func (b *base) Variant() Variant {
	return b.variant
}

func (b *base) Key() string {
	return b.variant.Key(b.id)
}

func (b *base) Surface() *signature.Surface {
	return b.surface
}

func (b *base) Wait() error {
	return b.group.Wait()
}

func (b *base) hydrating() bool {
	return b.pending.Load() > 0
}

func (b *base) goHydrate(fn func(ctx context.Context) error) {
	b.pending.Add(1)
	b.group.Go(func() error {
		defer b.pending.Add(-1)
		return fn(b.hctx)
	})
}

// seedSignature publishes a stored signature and paints it in the background.
func (b *base) seedSignature(uri string) {
	if uri == "" {
		return
	}
	b.surface.Seed(uri)
	b.goHydrate(func(ctx context.Context) error {
		err := b.surface.Preload(ctx, uri)
		switch {
		case err == nil:
		case errors.Is(err, signature.ErrSurfaceClosed), errors.Is(err, signature.ErrSeedDiscarded), errors.Is(err, context.Canceled):
			b.log.Debug("signature preload dropped", "reason", err)
		default:
			b.log.Warn("failed to preload signature", "error", err)
		}
		return nil
	})
}

func (b *base) signature() string {
	uri, _ := b.surface.Committed()
	return uri
}

func (b *base) navigate(ctx context.Context, route string) error {
	if err := b.nav.Navigate(ctx, route); err != nil {
		b.log.Error("failed to navigate", "route", route, "error", err)
		return err
	}
	return nil
}

// Close discards pending hydration and detaches the surface.
func (b *base) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	b.surface.Close()
}

var (
	_ Session = (*AbsenceSession)(nil)
	_ Session = (*ChangeSession)(nil)
)

// NewSink returns the raster buffer a variant starts with.
func NewSink(v Variant) *signature.ImageSink {
	if v == VariantChange {
		return signature.NewImageSink(signature.ChangeWidth, signature.ChangeHeight, signature.ChangeStyle)
	}
	return signature.NewImageSink(signature.AbsenceWidth, signature.AbsenceHeight, signature.AbsenceStyle)
}

// Stores groups the record stores of both variants.
type Stores struct {
	Absence Store[AbsenceRecord]
	Change  Store[ChangeRecord]
}

// NewStores keeps the records of both variants in one KV.
func NewStores(kv KV) Stores {
	return Stores{
		Absence: NewJSONStore[AbsenceRecord](kv),
		Change:  NewJSONStore[ChangeRecord](kv),
	}
}

// Open opens a session of the given variant.
func Open(ctx context.Context, v Variant, stores Stores, id string, deps Deps) (Session, error) {
	switch v {
	case VariantAbsence:
		s, err := OpenAbsence(ctx, stores.Absence, id, deps)
		if err != nil {
			return nil, err
		}
		return s, nil
	case VariantChange:
		s, err := OpenChange(ctx, stores.Change, id, deps)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, v.Validate()
}

// Read returns the stored record of a form, ErrNotFound when none was submitted.
func (s Stores) Read(ctx context.Context, v Variant, id string) (any, error) {
	var (
		rec any
		ok  bool
		err error
	)
	switch v {
	case VariantAbsence:
		rec, ok, err = s.Absence.Read(ctx, v.Key(id))
	case VariantChange:
		rec, ok, err = s.Change.Read(ctx, v.Key(id))
	default:
		return nil, v.Validate()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}
