package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
	"github.com/riskibarqy/odds-board/internal/platform/logging"
	"github.com/riskibarqy/odds-board/internal/usecase"
)

type Handler struct {
	matches   matchodds.Repository
	search    *usecase.SearchService
	boards    *usecase.BoardService
	sessions  *usecase.SessionService
	logger    *logging.Logger
	validator *validator.Validate
	upgrader  websocket.Upgrader
}

func NewHandler(
	matches matchodds.Repository,
	search *usecase.SearchService,
	boards *usecase.BoardService,
	sessions *usecase.SessionService,
	allowedOrigins []string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matches:   matches,
		search:    search,
		boards:    boards,
		sessions:  sessions,
		logger:    logger,
		validator: validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) decodeBody(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	decoder.UseNumber()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	state := h.matches.State(ctx)
	writeSuccess(ctx, w, http.StatusOK, healthDTO{
		Status:   "ok",
		Document: string(state.Status),
	})
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDocument")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, documentToDTO(h.matches.State(ctx)))
}

func (h *Handler) SearchMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchMatches")
	defer span.End()

	req := searchRequest{Query: r.URL.Query().Get("q")}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		req.Limit = limit
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.search.Search(ctx, req.Query, req.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "search matches failed", "query", req.Query, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, searchResultToDTO(result))
}

func (h *Handler) GetMatchOdds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchOdds")
	defer span.End()

	matchID := matchodds.Identifier(strings.TrimSpace(r.PathValue("matchID")))
	board, err := h.boards.MatchBoard(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match odds failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boardToDTO(board))
}

// NotFound answers every request no route matched.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NotFound")
	defer span.End()

	writeError(ctx, w, fmt.Errorf("%w: %s %s", usecase.ErrNotFound, r.Method, r.URL.Path))
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		if origin != "" {
			allowed[origin] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
