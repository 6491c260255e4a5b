package pkgrouter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgerror"
)

// Handler returns a payload to encode as JSON, or an error that is rendered
// through pkgerror.
type Handler func(ctx context.Context, r *http.Request) (any, error)

// Router serves httprouter routes behind a shared middleware stack:
// recover, correlation id, metrics (optional) and logging, in that order.
type Router struct {
	hr         *httprouter.Router
	errorCodec func(ctx context.Context, w http.ResponseWriter, err error)
	encoder    func(ctx context.Context, w http.ResponseWriter, resp any)
	mws        []Middleware
}

// NewRouter returns a Router with "/" and "/health" already mounted. A nil
// metrics Observer disables request metrics.
func NewRouter(uuid Generator, metrics Observer) *Router {
	ro := &Router{
		errorCodec: encodeError,
		encoder:    encodeSuccess,
		mws:        []Middleware{middlewareRecoverer, middlewareCorrelationID(uuid)},
	}
	if metrics != nil {
		ro.mws = append(ro.mws, middlewareMetrics(metrics))
	}
	ro.mws = append(ro.mws, middlewareLogging)

	ro.hr = &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound:               staticJSON(http.StatusNotFound, "endpoint not found"),
		MethodNotAllowed:       staticJSON(http.StatusMethodNotAllowed, "method not allowed"),
	}

	ro.Handle(http.MethodGet, "/", staticJSON(http.StatusOK, "gotask api"))
	ro.Handle(http.MethodGet, "/health", staticJSON(http.StatusOK, "ok"))

	return ro
}

func staticJSON(code int, msg string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"message": msg}, code)
	})
}

func encodeError(ctx context.Context, w http.ResponseWriter, err error) {
	gerr, ok := pkgerror.As(err)
	if !ok {
		slog.ErrorContext(ctx, "unhandled error", "error", err)
		writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		return
	}

	if gerr.Type() == pkgerror.TypeServer {
		slog.ErrorContext(ctx, "server error", "error", gerr.String())
	}

	writeJSON(w, errorResponse{Message: gerr.Msg(), Error: gerr.Fields()}, gerr.StatusCode())
}

func encodeSuccess(ctx context.Context, w http.ResponseWriter, resp any) {
	code := http.StatusOK
	if sc, ok := resp.(interface {
		StatusCode() int
	}); ok {
		code = sc.StatusCode()
	}

	if code == http.StatusNoContent || resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Raw payloads are written as-is, without the message/data envelope.
	if raw, ok := resp.(interface {
		Raw() bool
	}); ok && raw.Raw() {
		writeJSON(w, resp, code)
		return
	}

	msg := "request has been successfully"
	if m, ok := resp.(interface {
		Message() string
	}); ok {
		msg = m.Message()
	}

	var meta map[string]any
	if m, ok := resp.(interface {
		Meta() map[string]any
	}); ok {
		meta = m.Meta()
	}

	writeJSON(w, successReponse{
		Message: msg,
		Data:    resp,
		Meta:    meta,
	}, code)
}

// GET, POST, PATCH and DELETE register a Handler; mws run after the
// router-wide middleware.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws)
}

func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws)
}

func (r *Router) PATCH(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPatch, path, h, mws)
}

func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodDelete, path, h, mws)
}

// Handle registers a plain http.Handler, such as the metrics exporter.
func (r *Router) Handle(method, path string, h http.Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(h, r.stack(mws)...))
}

func (r *Router) endpoint(method, path string, h Handler, mws []Middleware) {
	r.Handle(method, path, r.adapt(h), mws...)
}

// adapt turns a Handler into an http.Handler that renders its result.
func (r *Router) adapt(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		resp, err := h(ctx, req)
		if err != nil {
			r.errorCodec(ctx, w, err)
			return
		}
		r.encoder(ctx, w, resp)
	})
}

// stack returns the router-wide middleware followed by mws in a new slice.
func (r *Router) stack(mws []Middleware) []Middleware {
	out := make([]Middleware, 0, len(r.mws)+len(mws))
	out = append(out, r.mws...)
	return append(out, mws...)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

// WriteError renders err the same way endpoint handlers do. Middleware uses it
// to reject requests before the handler runs.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	encodeError(ctx, w, err)
}

type errorResponse struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error,omitempty"`
}

type successReponse struct {
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
