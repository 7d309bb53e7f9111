package reqresp

import (
	"github.com/aws/aws-lambda-go/lambda"
	atom "go.uber.org/atomic"

	"github.com/aura-studio/function/event"
	fnhttp "github.com/aura-studio/function/http"
)

var engine atom.Pointer[Engine]

// Serve starts the Lambda handler. Like the plain listener it refuses to
// start without the instance identity.
func Serve(reqrespOpts []Option, httpOpts ...fnhttp.ServeOption) error {
	e := NewEngine(reqrespOpts, httpOpts...)
	if _, err := event.NewContext(e.http.Lookup, ""); err != nil {
		return err
	}
	engine.Store(e)
	lambda.Start(e.Invoke)
	return nil
}

func Close() {
	if e := engine.Load(); e != nil {
		e.Stop()
	}
}
