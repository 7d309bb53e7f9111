// Package response describes what a function handler returns and renders
// that description into the status, headers and body sent back over HTTP.
//
// A Response is one of three shapes: nil (nothing returned, 200 with an
// empty body), *Structured (status, body, headers) or *File (a file on the
// local filesystem streamed back as the body). The shape is chosen by the
// handler when it builds the value; the formatter never guesses.
package response

// Response is the descriptor returned by a handler. The nil Response is the
// empty response.
type Response interface {
	isResponse()
}

// Structured is a computed response. A zero StatusCode means 200; any other
// value is passed through as given.
type Structured struct {
	StatusCode int
	Body       Body
	Headers    Headers
}

// File streams the file at Path. Only Headers are consulted besides the path:
// Content-Type and Content-Disposition drive the download, the rest are sent
// as is.
type File struct {
	Path    string
	Headers Headers
}

func (*Structured) isResponse() {}
func (*File) isResponse()       {}

// New builds a structured response.
func New(statusCode int, body Body, headers Headers) *Structured {
	return &Structured{
		StatusCode: statusCode,
		Body:       body,
		Headers:    headers,
	}
}

// SendFile builds a file response.
func SendFile(path string, headers Headers) *File {
	return &File{
		Path:    path,
		Headers: headers,
	}
}
