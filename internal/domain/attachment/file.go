package attachment

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
)

// File is a named blob with a MIME type. Content is opened lazily so that a
// path or an upload is read only when the form is submitted.
type File struct {
	Name        string
	ContentType string
	Size        int64

	open func() (io.ReadCloser, error)
}

func (f *File) Open() (io.ReadCloser, error) {
	if f == nil || f.open == nil {
		return nil, fmt.Errorf("open %s: no content", f.displayName())
	}
	return f.open()
}

func (f *File) displayName() string {
	if f == nil {
		return "<nil>"
	}
	return f.Name
}

// New builds a file whose content comes from open.
func New(name, contentType string, size int64, open func() (io.ReadCloser, error)) *File {
	return &File{Name: name, ContentType: contentType, Size: size, open: open}
}

// FromBytes wraps in-memory content.
func FromBytes(name, contentType string, data []byte) *File {
	return &File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FromPath references a file on disk. The type comes from the extension and
// is left empty when unknown, to be sniffed on encode.
func FromPath(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat attachment: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("attachment %s is a directory", path)
	}
	return &File{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FromMultipart copies an uploaded form file into memory. The request's
// temporary files are removed when the handler returns, so the upload cannot
// be opened lazily at submit time. A limit of zero or less disables the size
// check.
func FromMultipart(h *multipart.FileHeader, limit int64) (*File, error) {
	if limit > 0 && h.Size > limit {
		return nil, &ReadError{Name: h.Filename, Err: ErrTooLarge}
	}
	src, err := h.Open()
	if err != nil {
		return nil, &ReadError{Name: h.Filename, Err: err}
	}
	defer src.Close()

	r := io.Reader(src)
	if limit > 0 {
		r = io.LimitReader(src, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ReadError{Name: h.Filename, Err: err}
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, &ReadError{Name: h.Filename, Err: ErrTooLarge}
	}
	return FromBytes(h.Filename, h.Header.Get("Content-Type"), data), nil
}

// ReadAll returns the whole content of f.
func ReadAll(f *File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
