package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"go-survey-stats/internal/logger"
	"go-survey-stats/internal/model"
	"go-survey-stats/pkg/router"
	"go-survey-stats/pkg/utils"
)

// MsgClosed is returned to submissions after graceful shutdown.
const MsgClosed = "Server is unable to accept new requests. It is closed."

// JobService is the scheduler surface the HTTP layer drives.
type JobService interface {
	Submit(ctx context.Context, op model.Operation, payload model.Payload) (int64, error)
	Status(ctx context.Context, id int64) (model.JobStatus, error)
	Jobs() []model.JobListing
	NumJobs() int64
	Shutdown(ctx context.Context) error
	Closed() bool
}

// Handler serves the job endpoints.
type Handler struct {
	svc    JobService
	logger *slog.Logger
	routes func() []string
}

// New builds a Handler. routes feeds the index page and may be nil.
func New(svc JobService, logger *slog.Logger, routes func() []string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger, routes: routes}
}

type SubmitResponse struct {
	JobID int64 `json:"job_id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type JobsResponse struct {
	Status string                      `json:"status"`
	Data   []map[string]model.JobState `json:"data"`
}

type NumJobsResponse struct {
	NumJobs int64 `json:"num_jobs"`
}

// Submit returns the handler for one aggregation route.
// @Summary Submit an aggregation job
// @Description Queue an aggregation over the survey dataset. Returns the assigned job id immediately; poll get_results for the outcome. state is required for state_mean, state_diff_from_mean and state_mean_by_category.
// @Tags jobs
// @Accept json
// @Produce json
// @Param operation path string true "Operation" Enums(states_mean, state_mean, best5, worst5, global_mean, diff_from_mean, state_diff_from_mean, mean_by_category, state_mean_by_category)
// @Param payload body model.Payload true "Question and optional state"
// @Success 200 {object} SubmitResponse "Job accepted"
// @Failure 400 {object} MessageResponse "Invalid request payload"
// @Failure 404 {object} MessageResponse "Unknown operation"
// @Failure 503 {object} MessageResponse "Server is shutting down"
// @Router /api/{operation} [post]
func (h *Handler) Submit(op model.Operation) router.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context(), h.logger)

		if h.svc.Closed() {
			respondJSON(w, http.StatusServiceUnavailable, MessageResponse{Message: MsgClosed})
			return
		}

		var payload model.Payload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid JSON payload"})
			return
		}

		id, err := h.svc.Submit(r.Context(), op, payload)
		if err != nil {
			status := statusFor(err)
			msg := err.Error()
			if status == http.StatusServiceUnavailable {
				msg = MsgClosed
			}
			if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
				log.ErrorContext(r.Context(), "submit failed", "operation", op, "error", err)
			}
			respondJSON(w, status, MessageResponse{Message: msg})
			return
		}

		respondJSON(w, http.StatusOK, SubmitResponse{JobID: id})
	}
}

// GetResults reports the state of a job and, once done, its result.
// @Summary Get job results
// @Description Returns running, done with data, failed with a reason, or error with "Invalid job_id" for ids that were never assigned
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} model.JobStatus "Job status"
// @Failure 500 {object} MessageResponse "Internal server error"
// @Router /api/get_results/{id} [get]
func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	id, ok := utils.ParseJobID(router.PathParam(r, 2))
	if !ok || len(segments) != 3 {
		respondJSON(w, http.StatusOK, model.JobStatus{Status: model.StatusError, Reason: model.ReasonInvalidJobID})
		return
	}

	status, err := h.svc.Status(r.Context(), id)
	if err != nil {
		logger.FromContext(r.Context(), h.logger).ErrorContext(r.Context(), "status lookup failed", "job_id", id, "error", err)
		respondJSON(w, http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// ListJobs lists every job id with its state.
// @Summary List jobs
// @Description Every assigned job id with its state, ascending by id
// @Tags jobs
// @Produce json
// @Success 200 {object} JobsResponse "Job listing"
// @Router /api/jobs [get]
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := h.svc.Jobs()
	data := make([]map[string]model.JobState, 0, len(jobs))
	for _, j := range jobs {
		data = append(data, map[string]model.JobState{strconv.FormatInt(j.ID, 10): j.State})
	}
	respondJSON(w, http.StatusOK, JobsResponse{Status: model.StatusDone, Data: data})
}

// NumJobs returns how many job ids have been assigned.
// @Summary Count jobs
// @Tags jobs
// @Produce json
// @Success 200 {object} NumJobsResponse "Number of jobs"
// @Router /api/num_jobs [get]
func (h *Handler) NumJobs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, NumJobsResponse{NumJobs: h.svc.NumJobs()})
}

// GracefulShutdown stops accepting jobs and waits for the queue to drain.
// @Summary Graceful shutdown
// @Description Rejects new submissions, then blocks until every accepted job has finished. Read endpoints keep working.
// @Tags admin
// @Produce json
// @Success 200 {object} MessageResponse "Shutting down gracefully"
// @Failure 503 {object} MessageResponse "Already shut down"
// @Router /api/graceful_shutdown [get]
func (h *Handler) GracefulShutdown(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.logger)

	if err := h.svc.Shutdown(r.Context()); err != nil {
		if errors.Is(err, model.ErrShutdown) {
			respondJSON(w, http.StatusServiceUnavailable, MessageResponse{Message: MsgClosed})
			return
		}
		log.ErrorContext(r.Context(), "graceful shutdown interrupted", "error", err)
		respondJSON(w, http.StatusInternalServerError, MessageResponse{Message: err.Error()})
		return
	}

	log.InfoContext(r.Context(), "all jobs drained")
	respondJSON(w, http.StatusOK, MessageResponse{Message: "Shutting down gracefully"})
}

// Index lists the registered routes as plain text.
// @Summary Route index
// @Tags admin
// @Produce plain
// @Success 200 {string} string "Route listing"
// @Router / [get]
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	b.WriteString("Survey stats API\n\nRoutes:\n")
	if h.routes != nil {
		for _, route := range h.routes() {
			method, path, _ := strings.Cut(route, ":")
			fmt.Fprintf(&b, "  %-5s %s\n", method, path)
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}

// Healthz is the liveness probe.
// @Summary Health check
// @Tags admin
// @Produce json
// @Success 200 {object} MessageResponse "ok"
// @Router /healthz [get]
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, MessageResponse{Message: "ok"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnknownOperation):
		return http.StatusNotFound
	case errors.Is(err, model.ErrShutdown):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
