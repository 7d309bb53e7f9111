package http

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aura-studio/function/event"
	"github.com/aura-studio/function/handler"
	"github.com/aura-studio/function/metrics"
	"github.com/aura-studio/function/response"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrInvalidStatus is returned for a status code outside 200-999. net/http
// panics on codes outside 100-999 and treats 1xx as informational headers
// rather than a final response, so neither can be passed through.
var ErrInvalidStatus = errors.New("http: invalid status code")

// HEAD runs the function like GET and drops the body.
var methods = []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPost, http.MethodPatch, http.MethodDelete}

const allowHeader = "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT"

func (e *Engine) InstallHandlers() {
	e.Use(e.HeaderLink, e.StaticLink, e.PrefixLink, e.Extras)

	e.HandleAllMethods("/*path", e.Invoke)
	e.Handle(http.MethodOptions, "/*path", e.Allow)
	e.NoMethod(e.MethodNotAllowed)
}

func (e *Engine) HandleAllMethods(relativePath string, handlers ...gin.HandlerFunc) {
	for _, method := range methods {
		e.Handle(method, relativePath, handlers...)
	}
}

func (e *Engine) HeaderLink(c *gin.Context) {
	for key, prefix := range e.HeaderLinkMap {
		if headerLink, ok := c.Request.Header[key]; ok && len(headerLink) > 0 {
			strs := []string{strings.TrimRight(prefix, "/"), strings.TrimLeft(headerLink[0], "/")}
			rewritePath(c, strings.Join(strs, "/"))
			c.Request.Header.Del(key)
			return
		}
	}
}

func (e *Engine) StaticLink(c *gin.Context) {
	if dstPath, ok := e.StaticLinkMap[c.Request.URL.Path]; ok {
		rewritePath(c, dstPath)
	}
}

func (e *Engine) PrefixLink(c *gin.Context) {
	for oldPrefix, newPrefix := range e.PrefixLinkMap {
		if strings.HasPrefix(c.Request.URL.Path, oldPrefix) {
			rewritePath(c, strings.Replace(c.Request.URL.Path, oldPrefix, newPrefix, 1))
			return
		}
	}
}

// Every route is the catch-all, so a rewrite only has to change the path the
// event is built from.
func rewritePath(c *gin.Context, path string) {
	c.Request.URL.Path = path
	c.Request.URL.RawPath = ""
}

// Extras answers the opt-in health check and metrics paths.
func (e *Engine) Extras(c *gin.Context) {
	switch path := c.Request.URL.Path; {
	case e.HealthCheckPath != "" && path == e.HealthCheckPath:
		e.OK(c)
	case e.MetricsPath != "" && path == e.MetricsPath:
		metrics.Handler(e.gatherer).ServeHTTP(c.Writer, c.Request)
		c.Abort()
	}
}

func (e *Engine) OK(c *gin.Context) {
	c.String(http.StatusOK, "OK")
	c.Abort()
}

// Allow answers OPTIONS without calling the function.
func (e *Engine) Allow(c *gin.Context) {
	c.Header("Allow", allowHeader)
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Abort()
}

func (e *Engine) MethodNotAllowed(c *gin.Context) {
	c.Header("Allow", allowHeader)
	c.String(http.StatusMethodNotAllowed, "405 method not allowed")
	c.Abort()
}

// Invoke runs the function for the request: build the Event and Context,
// call the handler, format its descriptor and write the result.
func (e *Engine) Invoke(c *gin.Context) {
	log := e.logger.WithField("request_id", c.GetString(RequestIDContext))

	ev, err := event.Build(c.Request, event.WithMaxMemory(e.MaxMemory), event.WithMaxBodyBytes(e.MaxBodyBytes))
	if err != nil {
		e.fail(c, log, metrics.StageEvent, err)
		return
	}
	defer ev.Close()

	ctx, err := event.NewContext(e.Lookup, c.GetString(RequestIDContext))
	if err != nil {
		e.fail(c, log, metrics.StageContext, err)
		return
	}

	if e.DebugMode {
		log.WithFields(logrus.Fields{
			"method":  ev.Method,
			"path":    ev.Path,
			"query":   ev.Query,
			"headers": ev.Headers.Map(),
			"body":    len(ev.Body),
		}).Debug("[http] event")
	}

	h, err := e.resolveHandler()
	if err != nil {
		e.fail(c, log, metrics.StageHandler, err)
		return
	}

	resp, err := handler.Safe(h, ev, ctx)
	if err != nil {
		e.fail(c, log, metrics.StageHandler, err)
		return
	}

	res, err := response.Format(resp)
	if err != nil {
		e.fail(c, log, metrics.StageFormat, err)
		return
	}

	if e.DebugMode {
		log.WithFields(logrus.Fields{
			"status": res.Status,
			"header": res.Header,
			"file":   res.File != nil,
		}).Debug("[http] result")
	}

	if res.File != nil {
		err = e.sendFile(c, res)
	} else {
		err = e.writeResult(c, res)
	}
	if err != nil {
		e.fail(c, log, metrics.StageWrite, err)
		return
	}
	c.Abort()
}

func (e *Engine) resolveHandler() (handler.Handler, error) {
	if e.Options.Handler != nil {
		return e.Options.Handler, nil
	}
	tunnel, err := e.Dynamic.Function()
	if err != nil {
		return nil, err
	}
	return handler.NewTunnel(tunnel), nil
}

// fail reports err and, if nothing has been written yet, answers with the
// error text.
func (e *Engine) fail(c *gin.Context, log *logrus.Entry, stage string, err error) {
	metrics.FailuresTotal.WithLabelValues(stage).Inc()
	log.WithError(err).WithField("stage", stage).Error("[http] request failed")

	if c.Writer.Written() {
		c.Abort()
		return
	}
	c.String(statusOf(err), err.Error())
	c.Abort()
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, event.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, event.ErrMalformedForm):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (e *Engine) writeResult(c *gin.Context, res *response.Result) error {
	if res.Status < 200 || res.Status > 999 {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, res.Status)
	}

	header := c.Writer.Header()
	for name, values := range res.Header {
		header[name] = values
	}
	c.Status(res.Status)

	if !bodyAllowed(res.Status) {
		c.Writer.WriteHeaderNow()
		return nil
	}
	if c.Request.Method == http.MethodHead {
		header.Set("Content-Length", strconv.Itoa(len(res.Body)))
		c.Writer.WriteHeaderNow()
		return nil
	}
	_, err := c.Writer.Write(res.Body)
	return err
}

func bodyAllowed(status int) bool {
	return status != http.StatusNoContent && status != http.StatusNotModified
}

func (e *Engine) sendFile(c *gin.Context, res *response.Result) error {
	f, err := os.Open(res.File.Path)
	if err != nil {
		return fmt.Errorf("http: send file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("http: send file: %w", err)
	}
	if st.IsDir() {
		return fmt.Errorf("http: send file: %s is a directory", res.File.Path)
	}

	header := c.Writer.Header()
	for name, values := range res.Header {
		header[name] = values
	}

	contentType := res.File.ContentType
	if contentType == "" && res.File.Filename != "" {
		contentType = mime.TypeByExtension(filepath.Ext(res.File.Filename))
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(res.File.Path))
	}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}

	disposition := "inline"
	if res.File.AsAttachment {
		disposition = "attachment"
	}
	if res.File.Filename != "" {
		header.Set("Content-Disposition", response.FormatContentDisposition(disposition, res.File.Filename))
	}
	metrics.FileResponsesTotal.WithLabelValues(disposition).Inc()

	http.ServeContent(c.Writer, c.Request, st.Name(), st.ModTime(), f)
	return nil
}
