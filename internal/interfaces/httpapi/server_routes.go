package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, opts RouterOptions) {
	mux.HandleFunc("/", handler.NotFound)
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}
	if !opts.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /openapi.json", handler.OpenAPIJSON)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerDocumentRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/document", handler.GetDocument)
	mux.HandleFunc("GET /v1/matches", handler.SearchMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}/odds", handler.GetMatchOdds)
}

func registerSessionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/sessions", handler.CreateSession)
	mux.HandleFunc("GET /v1/sessions/{sessionID}", handler.GetSession)
	mux.HandleFunc("DELETE /v1/sessions/{sessionID}", handler.DeleteSession)
	mux.HandleFunc("PUT /v1/sessions/{sessionID}/query", handler.SetSessionQuery)
	mux.HandleFunc("POST /v1/sessions/{sessionID}/selection", handler.SelectSessionMatch)
	mux.HandleFunc("POST /v1/sessions/{sessionID}/sections/{sectionID}/toggle", handler.ToggleSessionSection)
	mux.HandleFunc("GET /v1/sessions/{sessionID}/countdown", handler.GetSessionCountdown)
	mux.HandleFunc("GET /v1/sessions/{sessionID}/countdown/ws", handler.StreamSessionCountdown)
}
