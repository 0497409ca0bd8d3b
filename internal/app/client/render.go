package client

import (
	"fmt"
	"image/png"
	"io"

	"attendform/internal/domain/form"
	"attendform/internal/domain/signature"

	"golang.org/x/exp/slog"
)

// RenderSignature воспроизводит запись подписи на холсте формы v и пишет PNG.
func RenderSignature(v form.Variant, strokes io.Reader, w io.Writer, log *slog.Logger) error {
	if err := v.Validate(); err != nil {
		return err
	}
	st, err := signature.ReadStroke(strokes)
	if err != nil {
		return err
	}

	sink := form.NewSink(v)
	surface := signature.NewSurface(sink, log)
	defer surface.Close()

	if err := surface.Replay(st); err != nil {
		return fmt.Errorf("ошибка воспроизведения подписи: %w", err)
	}
	return png.Encode(w, sink.Image())
}
