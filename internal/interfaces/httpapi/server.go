package httpapi

import (
	"net/http"

	"github.com/riskibarqy/odds-board/internal/platform/logging"
	"golang.org/x/time/rate"
)

type RouterOptions struct {
	ServiceName        string
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	Limiter            *rate.Limiter
	Metrics            http.Handler
	Observer           RequestObserver
}

func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts)
	registerDocumentRoutes(mux, handler)
	registerSessionRoutes(mux, handler)

	var next http.Handler = recoverPanic(logger, matchRoute(mux))
	next = RateLimit(opts.Limiter, next)
	next = CORS(opts.CORSAllowedOrigins, next)
	next = RequestLogging(logger, opts.Observer, next)
	return RequestTracing(opts.ServiceName, next)
}

// matchRoute records the mux pattern for the logging middleware.
func matchRoute(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern != "" {
			setRoute(r.Context(), pattern)
		}
		mux.ServeHTTP(w, r)
	})
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
