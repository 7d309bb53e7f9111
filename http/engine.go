package http

import (
	"github.com/aura-studio/function/dynamic"
	"github.com/aura-studio/function/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type Engine struct {
	*Options
	*gin.Engine
	*dynamic.Dynamic

	logger   *logrus.Logger
	gatherer prometheus.Gatherer
}

func NewEngine(opts ...ServeOption) *Engine {
	bag := &serveOptionBag{}
	bag.apply(opts...)

	e := &Engine{
		Options: NewOptions(bag.http...),
		Dynamic: dynamic.NewDynamic(bag.dynamic...),
	}

	if !e.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	e.Engine = gin.New()
	e.HandleMethodNotAllowed = true

	e.logger = e.Options.Logger
	if e.logger == nil {
		e.logger = logrus.StandardLogger()
	}
	if e.DebugMode {
		e.logger.SetLevel(logrus.DebugLevel)
	}

	var reg prometheus.Registerer = prometheus.DefaultRegisterer
	e.gatherer = prometheus.DefaultGatherer
	if e.Registry != nil {
		reg, e.gatherer = e.Registry, e.Registry
	}
	if err := metrics.Register(reg); err != nil {
		e.logger.WithError(err).Warn("[http] register metrics failed")
	}

	e.Use(gin.Recovery(), RequestID(), Logger(e.logger), metrics.Middleware())

	if e.CorsMode {
		e.Use(Cors())
	}

	e.InstallHandlers()

	return e
}
