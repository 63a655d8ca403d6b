package router

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type HandlerFunc func(http.ResponseWriter, *http.Request)

// ContextFunc attaches a request id to a context. The router has no
// opinion on where the id lives; callers pass their logger package's
// helper.
type ContextFunc func(ctx context.Context, requestID string) context.Context

type Router struct {
	mux       *http.ServeMux
	routes    map[string]HandlerFunc // key = METHOD:PATH
	paths     map[string]bool        // track registered paths
	logger    *slog.Logger
	withReqID ContextFunc
}

// Option customizes a Router.
type Option func(*Router)

// WithLogger sets the access logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithRequestContext sets how request ids are stored on the request context.
func WithRequestContext(fn ContextFunc) Option {
	return func(r *Router) { r.withReqID = fn }
}

func New(opts ...Option) *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	// Catch-all handler for every path
	r.mux.HandleFunc("/", r.dispatch)
	return r
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	lrw.Header().Set(RequestIDHeader, requestID)
	if r.withReqID != nil {
		req = req.WithContext(r.withReqID(req.Context(), requestID))
	}

	if h, ok := r.lookup(req.Method, req.URL.Path); ok {
		h(lrw, req)
	} else if r.pathExists(req.URL.Path) {
		// Path exists but method not allowed
		http.Error(lrw, "Method Not Allowed", http.StatusMethodNotAllowed)
	} else {
		http.Error(lrw, "Not Found", http.StatusNotFound)
	}

	level := slog.LevelInfo
	if lrw.statusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	r.logger.LogAttrs(req.Context(), level, "http request",
		slog.String("request_id", requestID),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", lrw.statusCode),
		slog.Duration("duration", time.Since(start)),
	)
}

// lookup finds an exact route first, then the most specific wildcard route.
func (r *Router) lookup(method, path string) (HandlerFunc, bool) {
	if h, ok := r.routes[method+":"+path]; ok {
		return h, true
	}

	var best string
	for routePath := range r.paths {
		if !strings.Contains(routePath, "*") || !matchWildcardRoute(path, routePath) {
			continue
		}
		if _, ok := r.routes[method+":"+routePath]; !ok {
			continue
		}
		if len(routePath) > len(best) {
			best = routePath
		}
	}
	if best == "" {
		return nil, false
	}
	return r.routes[method+":"+best], true
}

func (r *Router) pathExists(path string) bool {
	if r.paths[path] {
		return true
	}
	for routePath := range r.paths {
		if strings.Contains(routePath, "*") && matchWildcardRoute(path, routePath) {
			return true
		}
	}
	return false
}

// matchWildcardRoute checks if a request path matches a wildcard route pattern
func matchWildcardRoute(requestPath, routePattern string) bool {
	// Split both paths into segments
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")
	routeSegments := strings.Split(strings.Trim(routePattern, "/"), "/")

	// Handle single wildcard at the end (matches any number of remaining segments)
	if len(routeSegments) > 0 && routeSegments[len(routeSegments)-1] == "*" {
		if len(requestSegments) < len(routeSegments)-1 {
			return false
		}
		for i := 0; i < len(routeSegments)-1; i++ {
			if requestSegments[i] != routeSegments[i] {
				return false
			}
		}
		return true
	}

	if len(requestSegments) != len(routeSegments) {
		return false
	}
	for i, routeSegment := range routeSegments {
		if routeSegment == "*" {
			// Wildcard matches any segment
			continue
		}
		if requestSegments[i] != routeSegment {
			return false
		}
	}
	return true
}

// --- Register paths ---
func (r *Router) register(method, path string, handler HandlerFunc) {
	key := method + ":" + path
	r.routes[key] = handler
	r.paths[path] = true
}

func (r *Router) GET(path string, handler HandlerFunc)  { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc) { r.register(http.MethodPost, path, handler) }

// Handle mounts an http.Handler for GET requests on path (wildcards allowed).
func (r *Router) Handle(path string, h http.Handler) {
	r.GET(path, h.ServeHTTP)
}

// Routes returns the registered route keys (METHOD:PATH), sorted.
func (r *Router) Routes() []string {
	keys := make([]string, 0, len(r.routes))
	for k := range r.routes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Server builds an http.Server for addr; the caller owns ListenAndServe
// and Shutdown.
func (r *Router) Server(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// PathParam returns the request path segment at index (0-based, ignoring
// the leading slash), or "" when the path is shorter.
func PathParam(req *http.Request, index int) string {
	segments := strings.Split(strings.Trim(req.URL.Path, "/"), "/")
	if index < 0 || index >= len(segments) {
		return ""
	}
	return segments[index]
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
