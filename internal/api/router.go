package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-survey-stats/docs"
	"go-survey-stats/internal/api/handler"
	"go-survey-stats/internal/model"
	"go-survey-stats/pkg/router"
)

// RegisterRoutes wires the job endpoints plus /metrics and /swagger/*.
// metrics may be nil.
func RegisterRoutes(r *router.Router, h *handler.Handler, metrics http.Handler) {
	r.GET("/", h.Index)
	r.GET("/index", h.Index)
	r.GET("/healthz", h.Healthz)

	for _, op := range model.Operations {
		r.POST("/api/"+string(op), h.Submit(op))
	}

	r.GET("/api/jobs", h.ListJobs)
	r.GET("/api/num_jobs", h.NumJobs)
	r.GET("/api/graceful_shutdown", h.GracefulShutdown)
	r.GET("/api/get_results/*", h.GetResults)

	if metrics != nil {
		r.Handle("/metrics", metrics)
	}
	r.Handle("/swagger/*", httpSwagger.WrapHandler)
}
