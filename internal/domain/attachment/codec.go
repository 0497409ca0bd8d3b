package attachment

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// DefaultMaxBytes caps the attachment size before encoding.
	DefaultMaxBytes = 10 << 20

	// DecodedName and DecodedType are fixed for every file rebuilt from a
	// stored data URI.
	DecodedName = "appendix.png"
	DecodedType = "image/png"

	dataPrefix   = "data:"
	base64Suffix = ";base64"
)

type Codec struct {
	maxBytes int64
}

// NewCodec returns a codec with the given size cap, DefaultMaxBytes when maxBytes <= 0.
func NewCodec(maxBytes int64) *Codec {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Codec{maxBytes: maxBytes}
}

var defaultCodec = NewCodec(DefaultMaxBytes)

// FileToDataURI encodes f with the default codec.
func FileToDataURI(ctx context.Context, f *File) (string, error) {
	return defaultCodec.Encode(ctx, f)
}

// DataURIToFile decodes uri with the default codec.
func DataURIToFile(ctx context.Context, uri string) (*File, error) {
	return defaultCodec.Decode(ctx, uri)
}

type result[T any] struct {
	val T
	err error
}

// Encode reads f and renders it as "data:<mime>;base64,<payload>". The read
// runs in its own goroutine; cancelling ctx abandons it.
func (c *Codec) Encode(ctx context.Context, f *File) (string, error) {
	if f == nil {
		return "", &ReadError{Name: "<nil>", Err: fmt.Errorf("no file")}
	}

	done := make(chan result[string], 1)
	go func() {
		uri, err := c.encode(f)
		done <- result[string]{val: uri, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", &ReadError{Name: f.Name, Err: ctx.Err()}
	case r := <-done:
		return r.val, r.err
	}
}

func (c *Codec) encode(f *File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", &ReadError{Name: f.Name, Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, c.maxBytes+1))
	if err != nil {
		return "", &ReadError{Name: f.Name, Err: err}
	}
	if int64(len(data)) > c.maxBytes {
		return "", &ReadError{Name: f.Name, Err: ErrTooLarge}
	}

	contentType := mediaType(f.ContentType)
	if contentType == "" {
		contentType = mediaType(mimetype.Detect(data).String())
	}

	var b strings.Builder
	b.Grow(len(dataPrefix) + len(contentType) + len(base64Suffix) + 1 + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(dataPrefix)
	b.WriteString(contentType)
	b.WriteString(base64Suffix)
	b.WriteByte(',')
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String(), nil
}

// Decode rebuilds the attachment from a stored data URI. The result is always
// named DecodedName with type DecodedType.
func (c *Codec) Decode(ctx context.Context, uri string) (*File, error) {
	done := make(chan result[[]byte], 1)
	go func() {
		_, data, err := ParseDataURI(uri)
		done <- result[[]byte]{val: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, &DecodeError{Err: ctx.Err()}
	case r := <-done:
		if r.err != nil {
			return nil, &DecodeError{Err: r.err}
		}
		if int64(len(r.val)) > c.maxBytes {
			return nil, &DecodeError{Err: ErrTooLarge}
		}
		return FromBytes(DecodedName, DecodedType, r.val), nil
	}
}

// ParseDataURI splits a base64 data URI into its media type and content.
func ParseDataURI(uri string) (string, []byte, error) {
	raw := strings.TrimSpace(uri)
	if raw == "" {
		return "", nil, ErrEmptyDataURI
	}
	if !strings.HasPrefix(raw, dataPrefix) {
		return "", nil, ErrInvalidPrefix
	}
	comma := strings.IndexByte(raw, ',')
	if comma < 0 {
		return "", nil, ErrMissingComma
	}
	meta := raw[len(dataPrefix):comma]
	payload := raw[comma+1:]
	if !strings.HasSuffix(strings.ToLower(meta), base64Suffix) {
		return "", nil, ErrNotBase64
	}
	contentType := mediaType(meta[:len(meta)-len(base64Suffix)])
	if contentType == "" {
		return "", nil, ErrMissingMime
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	return contentType, data, nil
}

// mediaType drops parameters such as charset.
func mediaType(s string) string {
	base, _, _ := strings.Cut(s, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
