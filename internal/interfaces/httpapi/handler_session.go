package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
)

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSession")
	defer span.End()

	view, err := h.sessions.Create(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "create session failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Location", "/v1/sessions/"+view.ID)
	writeSuccess(ctx, w, http.StatusCreated, sessionToDTO(view))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSession")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	view, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get session failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(view))
}

func (h *Handler) SetSessionQuery(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetSessionQuery")
	defer span.End()

	var req setQueryRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	sessionID := r.PathValue("sessionID")
	view, err := h.sessions.SetQuery(ctx, sessionID, *req.Query)
	if err != nil {
		h.logger.WarnContext(ctx, "set session query failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(view))
}

func (h *Handler) SelectSessionMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectSessionMatch")
	defer span.End()

	var req selectMatchRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	sessionID := r.PathValue("sessionID")
	view, err := h.sessions.Select(ctx, sessionID, matchodds.IdentifierFrom(req.MatchID))
	if err != nil {
		// Invalid selections are already logged by the session service.
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(view))
}

func (h *Handler) ToggleSessionSection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleSessionSection")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	sectionID := strings.TrimSpace(r.PathValue("sectionID"))
	view, err := h.sessions.ToggleSection(ctx, sessionID, sectionID)
	if err != nil {
		h.logger.WarnContext(ctx, "toggle section failed", "session_id", sessionID, "section_id", sectionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(view))
}

func (h *Handler) GetSessionCountdown(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSessionCountdown")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	value, err := h.sessions.Countdown(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, countdownToDTO(value))
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteSession")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	if err := h.sessions.Delete(ctx, sessionID); err != nil {
		h.logger.WarnContext(ctx, "delete session failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
