// Package reqresp hosts the function on AWS Lambda behind API Gateway. Each
// proxy event is turned into an *http.Request and served by the same engine
// as the plain listener.
package reqresp

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
	atom "go.uber.org/atomic"

	fnhttp "github.com/aura-studio/function/http"
)

type Engine struct {
	*Options
	http    *fnhttp.Engine
	running atom.Bool
}

func NewEngine(reqrespOpts []Option, httpOpts ...fnhttp.ServeOption) *Engine {
	e := &Engine{
		Options: NewOptions(reqrespOpts...),
		http:    fnhttp.NewEngine(httpOpts...),
	}
	e.running.Store(true)
	return e
}

func (e *Engine) Start() {
	e.running.Store(true)
}

func (e *Engine) Stop() {
	e.running.Store(false)
}

func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// HTTP returns the engine events are served by.
func (e *Engine) HTTP() *fnhttp.Engine {
	return e.http
}

// Invoke serves one API Gateway proxy event. Failures inside the function
// are already HTTP responses, so the returned error is only set when the
// event itself cannot be turned into a request.
func (e *Engine) Invoke(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log := logrus.WithField("request_id", event.RequestContext.RequestID)

	if !e.IsRunning() {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusServiceUnavailable,
			Body:       "engine is stopped",
		}, nil
	}

	r, err := NewRequest(ctx, event, e.StripPrefix)
	if err != nil {
		log.WithError(err).Error("[reqresp] convert event failed")
		return events.APIGatewayProxyResponse{}, err
	}

	if e.DebugMode {
		log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("[reqresp] request")
	}

	w := NewResponseWriter()
	e.http.ServeHTTP(w, r)
	resp := w.Proxy()

	if e.DebugMode {
		log.WithFields(logrus.Fields{
			"status":          resp.StatusCode,
			"isBase64Encoded": resp.IsBase64Encoded,
		}).Debug("[reqresp] response")
	}

	return resp, nil
}
