package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-survey-stats/internal/api/handler"
	"go-survey-stats/internal/logger"
	"go-survey-stats/internal/model"
	"go-survey-stats/internal/observability"
	"go-survey-stats/internal/pipeline"
	"go-survey-stats/internal/store"
	"go-survey-stats/pkg/router"
)

const question = "Percent of adults aged 18 years and older who have obesity"

func newServer(t *testing.T) (*httptest.Server, *pipeline.Service) {
	t.Helper()
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))

	data := pipeline.NewDataset([]model.Record{
		{YearStart: 2015, YearEnd: 2015, LocationDesc: "Ohio", Question: question, DataValue: 30, StratificationCategory1: "Age (years)", Stratification1: "18 - 24"},
		{YearStart: 2016, YearEnd: 2016, LocationDesc: "Ohio", Question: question, DataValue: 34, StratificationCategory1: "Age (years)", Stratification1: "25 - 34"},
		{YearStart: 2016, YearEnd: 2016, LocationDesc: "Utah", Question: question, DataValue: 24, StratificationCategory1: "Age (years)", Stratification1: "18 - 24"},
	})
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	svc := pipeline.NewService(pipeline.NewEngine(data), store.NewMemoryStore(), pipeline.Options{
		Pool:    model.PoolConfig{Workers: 2, Retry: model.DefaultPersistRetry},
		Metrics: metrics,
		Logger:  log,
	})
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	r := router.New(router.WithLogger(log), router.WithRequestContext(logger.WithRequestID))
	RegisterRoutes(r, handler.New(svc, log, r.Routes), metrics.Handler())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if into != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	}
	return resp.StatusCode
}

func TestEndToEnd_SubmitAndFetch(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/api/states_mean", "application/json",
		strings.NewReader(`{"question":"`+question+`"}`))
	require.NoError(t, err)
	var submitted handler.SubmitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&submitted))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), submitted.JobID)

	var raw map[string]json.RawMessage
	require.Eventually(t, func() bool {
		raw = nil
		getJSON(t, srv.URL+"/api/get_results/1", &raw)
		return string(raw["status"]) == `"done"`
	}, 2*time.Second, 10*time.Millisecond)
	assert.JSONEq(t, `{"Utah":24,"Ohio":32}`, string(raw["data"]))

	var num handler.NumJobsResponse
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/num_jobs", &num))
	assert.Equal(t, int64(1), num.NumJobs)
}

func TestEndToEnd_ErrorMapping(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/api/state_mean", "application/json", strings.NewReader(`{"question":"q"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/not_an_op", "application/json", strings.NewReader(`{"question":"q"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	for _, path := range []string{"/api/get_results/99", "/api/get_results/1/extra"} {
		var status model.JobStatus
		assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+path, &status), path)
		assert.Equal(t, model.StatusError, status.Status, path)
		assert.Equal(t, model.ReasonInvalidJobID, status.Reason, path)
	}
}

func TestEndToEnd_GracefulShutdown(t *testing.T) {
	srv, _ := newServer(t)

	var msg handler.MessageResponse
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/graceful_shutdown", &msg))
	assert.Equal(t, "Shutting down gracefully", msg.Message)

	resp, err := http.Post(srv.URL+"/api/global_mean", "application/json", strings.NewReader(`{"question":"q"}`))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, handler.MsgClosed, msg.Message)

	// reads stay available
	var jobs handler.JobsResponse
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/jobs", &jobs))
	assert.Empty(t, jobs.Data)

	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, srv.URL+"/api/graceful_shutdown", nil))
}

func TestEndToEnd_AuxiliaryRoutes(t *testing.T) {
	srv, _ := newServer(t)

	for _, path := range []string{"/", "/index", "/healthz", "/metrics", "/swagger/doc.json"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.NotEmpty(t, resp.Header.Get(router.RequestIDHeader), path)
		if path == "/" {
			assert.Contains(t, string(body), "/api/state_mean_by_category")
		}
	}
}
