package event

import (
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
)

var errNoContent = errors.New("event: file has no content")

// File is an uploaded multipart file part.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Header      textproto.MIMEHeader

	fh *multipart.FileHeader
}

func newFile(fh *multipart.FileHeader) *File {
	return &File{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Header:      fh.Header,
		fh:          fh,
	}
}

// Open returns a reader over the uploaded bytes.
func (f *File) Open() (io.ReadCloser, error) {
	if f.fh == nil {
		return nil, errNoContent
	}
	return f.fh.Open()
}

func (f *File) Bytes() ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Files maps a form field name to the files uploaded under it.
type Files map[string][]*File

// Get returns the first file uploaded under name, or nil.
func (f Files) Get(name string) *File {
	if files := f[name]; len(files) > 0 {
		return files[0]
	}
	return nil
}
