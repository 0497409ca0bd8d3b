package form

import (
	"context"
	"errors"
	"sort"

	"attendform/internal/domain/attachment"
	"attendform/internal/domain/form"
	"attendform/internal/domain/session"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	sessions      session.Servicer
	maxAttachment int64
	log           *slog.Logger
	middleware    huma.Middlewares
}

func NewHandler(sessions session.Servicer, maxAttachment int64, log *slog.Logger, mws huma.Middlewares) *Handler {
	if maxAttachment <= 0 {
		maxAttachment = attachment.DefaultMaxBytes
	}
	return &Handler{
		sessions:      sessions,
		maxAttachment: maxAttachment,
		log:           log.With("component", "form_handler"),
		middleware:    mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	for _, v := range []form.Variant{form.VariantAbsence, form.VariantChange} {
		for _, opt := range v.Options() {
			opt.Table.Schema(api.OpenAPI().Components.Schemas)
		}
	}

	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.optionsOp(), h.options)
	huma.Register(api, h.openOp(), h.open)
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.editOp(), h.edit)
	huma.Register(api, h.attachOp(), h.attach)
	huma.Register(api, h.uploadOp(), h.upload)
	huma.Register(api, h.detachOp(), h.detach)
	huma.Register(api, h.resizeOp(), h.resize)
	huma.Register(api, h.strokesOp(), h.strokes)
	huma.Register(api, h.clearOp(), h.clear)
	huma.Register(api, h.submitOp(), h.submit)
	huma.Register(api, h.recordOp(), h.record)
	huma.Register(api, h.closeOp(), h.close)
}

func (h *Handler) create(ctx context.Context, input *variantInput) (*stateOutput, error) {
	s, err := h.sessions.Create(ctx, input.Variant)
	if err != nil {
		return nil, h.fail(err)
	}
	return state(s), nil
}

func (h *Handler) options(_ context.Context, input *variantInput) (*optionsOutput, error) {
	opts := input.Variant.Options()
	out := &optionsOutput{
		Body: OptionsResponse{
			Variant: input.Variant,
			Fields:  make([]FieldOptions, 0, len(opts)),
		},
	}
	for _, opt := range opts {
		out.Body.Fields = append(out.Body.Fields, FieldOptions{
			Field:  opt.Field,
			Schema: opt.Table.SchemaRef(),
			Labels: opt.Table.Labels(),
		})
	}
	return out, nil
}

func (h *Handler) open(ctx context.Context, input *pathInput) (*stateOutput, error) {
	s, err := h.sessions.Open(ctx, input.Variant, input.ID)
	if err != nil {
		return nil, h.fail(err)
	}
	return state(s), nil
}

func (h *Handler) get(_ context.Context, input *pathInput) (*stateOutput, error) {
	s, err := h.sessions.Get(input.Variant, input.ID)
	if err != nil {
		return nil, h.fail(err)
	}
	return state(s), nil
}

// edit применяет поля в порядке имен; ошибочные поля не меняются, остальные применяются
func (h *Handler) edit(_ context.Context, input *fieldsInput) (*stateOutput, error) {
	s, err := h.sessions.Get(input.Variant, input.ID)
	if err != nil {
		return nil, h.fail(err)
	}

	names := make([]string, 0, len(input.Body.Fields))
	for name := range input.Body.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := s.Edit(name, input.Body.Fields[name]); err != nil {
			if errors.Is(err, form.ErrSessionClosed) {
				return nil, h.fail(err)
			}
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, h.fail(errors.Join(errs...))
	}
	return state(s), nil
}

func (h *Handler) attach(_ context.Context, input *documentInput) (*stateOutput, error) {
	s, err := h.sessions.Get(form.VariantAbsence, input.ID)
	if err != nil {
		return nil, h.fail(err)
	}
	if int64(len(input.Body.Data)) > h.maxAttachment {
		return nil, h.fail(attachment.ErrTooLarge)
	}

	doc := attachment.FromBytes(input.Body.Name, input.Body.ContentType, input.Body.Data)
	if err := s.Attach(doc); err != nil {
		return nil, h.fail(err)
	}
	return state(s), nil
}

func (h *Handler) upload(_ context.Context, input *uploadInput) (*stateOutput, error) {
	s, err := h.sessions.Get(form.VariantAbsence, input.ID)
	if err != nil {
		return nil, h.fail(err)
	}

	files := input.RawBody.File[uploadField]
	if len(files) != 1 {
		return nil, huma.Error422UnprocessableEntity("document upload failed", &huma.ErrorDetail{
			Message:  "expected exactly one file",
			Location: "body." + uploadField,
		})
	}

	doc, err := attachment.FromMultipart(files[0], h.maxAttachment)
	if err != nil {
		return nil, h.fail(err)
	}
	if err := s.Attach(doc); err != nil {
		return nil, h.fail(err)
	}
	return state(s), nil
}

func (h *Handler) detach(_ context.Context, input *absenceInput) (*stateOutput, error) {
	s, err := h.sessions.Get(form.VariantAbsence, input.ID)
	if err != nil {
		return nil, h.fail(err)
	}
	if err := s.Detach(); err != nil {
		return nil, h.fail(err)
	}
	return state(s), nil
}

func (h *Handler) resize(_ context.Context, input *sizeInput) (*stateOutput, error) {
	s, err := h.sessions.Get(input.Variant, input.ID)
	if err != nil {
		return nil, h.fail(err)
	}
	s.Surface().Resize(input.Body.Width, input.Body.Height)
	return state(s), nil
}

func (h *Handler) strokes(_ context.Context, input *strokesInput) (*stateOutput, error) {
	s, err := h.sessions.Get(input.Variant, input.ID)
	if err != nil {
		return nil, h.fail(err)
	}
	if err := s.Surface().Replay(input.Body); err != nil {
		return nil, h.fail(err)
	}
	return state(s), nil
}

func (h *Handler) clear(_ context.Context, input *pathInput) (*stateOutput, error) {
	s, err := h.sessions.Get(input.Variant, input.ID)
	if err != nil {
		return nil, h.fail(err)
	}
	s.Surface().Clear()
	return state(s), nil
}

func (h *Handler) submit(ctx context.Context, input *pathInput) (*submitOutput, error) {
	s, err := h.sessions.Get(input.Variant, input.ID)
	if err != nil {
		return nil, h.fail(err)
	}

	sub, err := s.Submit(ctx)
	if err != nil {
		return nil, h.fail(err)
	}

	return &submitOutput{
		Body: SubmitResponse{
			Key:    sub.Key,
			Route:  sub.Route,
			Record: sub.Record,
		},
	}, nil
}

func (h *Handler) record(ctx context.Context, input *pathInput) (*recordOutput, error) {
	rec, err := h.sessions.Record(ctx, input.Variant, input.ID)
	if err != nil {
		return nil, h.fail(err)
	}
	return &recordOutput{
		Body: RecordResponse{
			ID:      input.ID,
			Variant: input.Variant,
			Record:  rec,
		},
	}, nil
}

func (h *Handler) close(_ context.Context, input *pathInput) (*struct{}, error) {
	if err := h.sessions.Close(input.Variant, input.ID); err != nil {
		return nil, h.fail(err)
	}
	return nil, nil
}

func state(s form.Session) *stateOutput {
	st := s.State()
	w, ht := s.Surface().Size()
	return &stateOutput{
		Body: StateResponse{
			ID:        s.ID(),
			Variant:   st.Variant,
			Fields:    st.Fields,
			Document:  st.Document,
			Signature: st.Signature,
			Hydrating: st.Hydrating,
			Width:     w,
			Height:    ht,
		},
	}
}
