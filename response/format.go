package response

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// ErrValidation marks a descriptor that cannot be turned into a response.
var ErrValidation = errors.New("response: invalid descriptor")

var ErrMissingFileHint = fmt.Errorf("%w: please define at least a Content-Type header "+
	"or a Content-Disposition header with filename param", ErrValidation)

// Result is the formatted response handed to the HTTP layer. Exactly one of
// Body and File is meaningful: File is non-nil in file mode.
type Result struct {
	Status int
	Header http.Header
	Body   []byte
	File   *FileResult
}

// FileResult tells the HTTP layer which file to stream and how to present it.
type FileResult struct {
	Path         string
	ContentType  string
	AsAttachment bool
	Filename     string
}

// Format renders a descriptor. It keeps no state between calls.
func Format(resp Response) (*Result, error) {
	switch r := resp.(type) {
	case nil:
		return formatStructured(&Structured{})
	case *Structured:
		if r == nil {
			return formatStructured(&Structured{})
		}
		return formatStructured(r)
	case *File:
		if r == nil {
			return formatStructured(&Structured{})
		}
		return formatFile(r)
	default:
		return nil, fmt.Errorf("%w: unsupported descriptor %T", ErrValidation, resp)
	}
}

func formatStructured(r *Structured) (*Result, error) {
	status := r.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	body, contentType, err := encode(r.Body)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Content-Type", contentType)
	for _, h := range r.Headers.Normalize() {
		header.Set(h.Name, h.Value)
	}

	return &Result{
		Status: status,
		Header: header,
		Body:   body,
	}, nil
}

func formatFile(r *File) (*Result, error) {
	mimetype := r.Headers.Get("Content-Type")

	var (
		asAttachment bool
		filename     string
	)
	if v := r.Headers.Get("Content-Disposition"); v != "" {
		d := ParseContentDisposition(v)
		asAttachment = d.IsAttachment()
		filename = d.Filename
	}

	if mimetype == "" && filename == "" {
		return nil, ErrMissingFileHint
	}
	if asAttachment && filename == "" {
		filename = filepath.Base(r.Path)
	}

	header := http.Header{}
	for _, h := range r.Headers.Normalize() {
		if strings.EqualFold(h.Name, "Content-Type") || strings.EqualFold(h.Name, "Content-Disposition") {
			continue
		}
		header.Set(h.Name, h.Value)
	}

	return &Result{
		Status: http.StatusOK,
		Header: header,
		File: &FileResult{
			Path:         r.Path,
			ContentType:  mimetype,
			AsAttachment: asAttachment,
			Filename:     filename,
		},
	}, nil
}
