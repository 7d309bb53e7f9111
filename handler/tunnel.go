package handler

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/aura-studio/function/dynamic"
	"github.com/aura-studio/function/event"
	"github.com/aura-studio/function/response"
	"github.com/tidwall/sjson"
)

// Invoker is the part of a dynamic package tunnel the runtime calls.
type Invoker interface {
	Invoke(route string, req string) string
}

// Tunnel runs the function inside a dynamically loaded package. The Event
// and Context travel as a JSON document (see EncodeEvent) and the package
// answers with a JSON descriptor (see response.Decode).
type Tunnel struct {
	invoker Invoker
}

func NewTunnel(invoker Invoker) *Tunnel {
	return &Tunnel{invoker: invoker}
}

// LoadTunnel resolves pkg at version through d.
func LoadTunnel(d *dynamic.Dynamic, pkg string, version string) (*Tunnel, error) {
	tunnel, err := d.GetPackage(pkg, version)
	if err != nil {
		return nil, fmt.Errorf("handler: load package %s@%s: %w", pkg, version, err)
	}
	return NewTunnel(tunnel), nil
}

func (t *Tunnel) Handle(e *event.Event, c *event.Context) (response.Response, error) {
	req, err := EncodeEvent(e, c)
	if err != nil {
		return nil, err
	}
	return response.Decode([]byte(t.invoker.Invoke(e.Path, req)))
}

type wireFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// EncodeEvent renders the request for a tunnel:
//
//	{"method": "POST", "path": "/x", "query": {"a": ["1"]}, "headers": [["Host", "h"]],
//	 "body": "...", "isBase64Encoded": false, "json": {...}, "form": {...},
//	 "files": {"f": [{"filename": "a.csv", "contentType": "text/csv", "size": 3}]},
//	 "context": {"hostname": "h", "requestId": "r"}}
//
// Bodies that are not valid UTF-8 are base64 encoded.
func EncodeEvent(e *event.Event, c *event.Context) (string, error) {
	doc := "{}"
	var err error
	set := func(path string, value any) {
		if err == nil {
			doc, err = sjson.Set(doc, path, value)
		}
	}

	set("method", e.Method)
	set("path", e.Path)
	set("query", valuesOf(e.Query))

	headers := make([][2]string, 0, len(e.Headers))
	for _, h := range e.Headers {
		headers = append(headers, [2]string{h.Name, h.Value})
	}
	set("headers", headers)

	if utf8.Valid(e.Body) {
		set("body", string(e.Body))
		set("isBase64Encoded", false)
	} else {
		set("body", base64.StdEncoding.EncodeToString(e.Body))
		set("isBase64Encoded", true)
	}

	if e.JSON != nil {
		set("json", e.JSON)
	}
	set("form", valuesOf(e.Form))

	files := map[string][]wireFile{}
	for name, list := range e.Files {
		for _, f := range list {
			files[name] = append(files[name], wireFile{
				Filename:    f.Filename,
				ContentType: f.ContentType,
				Size:        f.Size,
			})
		}
	}
	set("files", files)

	if c != nil {
		set("context.hostname", c.Hostname)
		set("context.requestId", c.RequestID)
	}

	if err != nil {
		return "", fmt.Errorf("handler: encode event: %w", err)
	}
	return doc, nil
}

func valuesOf(v map[string][]string) map[string][]string {
	if v == nil {
		return map[string][]string{}
	}
	return v
}
