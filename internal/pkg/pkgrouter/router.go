package pkgrouter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgerror"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkglog"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkguid"
)

// Handler returns the payload to encode, or an error.
//
// A payload may implement StatusCode() int, Message() string or
// Meta() map[string]any to shape the envelope; a nil payload means 204.
type Handler func(ctx context.Context, r *http.Request) (any, error)

type Router struct {
	hr  *httprouter.Router
	mws []Middleware
}

// NewRouter builds a router with recovery, correlation ids and access
// logging installed, plus "/" and "/health".
func NewRouter(uid pkguid.StringID) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "endpoint not found", Code: pkgerror.CodeNotFound.String()}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "method not allowed", Code: "method_not_allowed"}, http.StatusMethodNotAllowed)
		}),
	}

	ro := &Router{
		hr: hr,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareCorrelationID(uid),
			middlewareAccessLog,
		},
	}

	ro.GET("/", func(context.Context, *http.Request) (any, error) {
		return serviceInfo{Service: pkglog.ServiceName}, nil
	})
	ro.GET("/health", func(context.Context, *http.Request) (any, error) {
		return serviceInfo{Service: pkglog.ServiceName, Status: "ok"}, nil
	})

	return ro
}

// Use appends middleware for routes registered afterwards.
func (r *Router) Use(mws ...Middleware) {
	r.mws = append(r.mws, mws...)
}

func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.Handle(http.MethodGet, path, r.adapt(h), mws...)
}

func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.Handle(http.MethodPost, path, r.adapt(h), mws...)
}

// Handle registers a raw http.Handler behind the router middleware.
func (r *Router) Handle(method, path string, h http.Handler, mws ...Middleware) {
	chain := make([]Middleware, 0, len(r.mws)+len(mws))
	chain = append(chain, r.mws...)
	chain = append(chain, mws...)

	r.hr.Handler(method, path, Chain(h, chain...))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

func (r *Router) adapt(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(req.Context(), req)
		if err != nil {
			writeError(req.Context(), w, err)
			return
		}
		writeOK(w, resp)
	})
}

type serviceInfo struct {
	Service string `json:"service"`
	Status  string `json:"status,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type successResponse struct {
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	gerr, ok := pkgerror.As(err)
	if !ok {
		gerr, _ = pkgerror.As(pkgerror.NewServer(err))
	}

	if gerr.Type() == pkgerror.TypeServer {
		slog.ErrorContext(ctx, "request failed", "error", err)
	}

	writeJSON(w, errorResponse{Message: gerr.Msg(), Code: gerr.Code().String()}, gerr.StatusCode())
}

func writeOK(w http.ResponseWriter, resp any) {
	code := http.StatusOK
	if sc, ok := resp.(interface{ StatusCode() int }); ok {
		code = sc.StatusCode()
	}

	if resp == nil || code == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	body := successResponse{Message: "ok", Data: resp}
	if m, ok := resp.(interface{ Message() string }); ok {
		body.Message = m.Message()
	}
	if m, ok := resp.(interface{ Meta() map[string]any }); ok {
		body.Meta = m.Meta()
	}

	writeJSON(w, body, code)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
