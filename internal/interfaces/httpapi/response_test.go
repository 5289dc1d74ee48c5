package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/odds-board/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestWriteError_HidesInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("dial tcp 10.0.0.3: refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if got := rec.Body.String(); !strings.Contains(got, `"internal server error"`) || strings.Contains(got, "10.0.0.3") {
		t.Fatalf("unexpected body: %s", got)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		reason string
	}{
		{err: fmt.Errorf("%w: limit", usecase.ErrInvalidInput), status: http.StatusBadRequest, reason: "invalidInput"},
		{err: fmt.Errorf("%w: session=x", usecase.ErrNotFound), status: http.StatusNotFound, reason: "notFound"},
		{err: fmt.Errorf("%w: match=9", usecase.ErrInvalidSelection), status: http.StatusUnprocessableEntity, reason: "invalidSelection"},
		{err: fmt.Errorf("list: %w", usecase.ErrDocumentLoading), status: http.StatusServiceUnavailable, reason: "documentLoading"},
		{err: fmt.Errorf("%w: HTTP error! status: 500", usecase.ErrDocumentLoadFailed), status: http.StatusServiceUnavailable, reason: "documentLoadFailed"},
		{err: usecase.ErrRateLimited, status: http.StatusTooManyRequests, reason: "rateLimitExceeded"},
		{err: errors.New("boom"), status: http.StatusInternalServerError, reason: "internalError"},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			got := mapError(context.Background(), tt.err)
			if got.HTTPStatus != tt.status || got.Reason != tt.reason {
				t.Fatalf("mapError(%v) = %d/%s, want %d/%s", tt.err, got.HTTPStatus, got.Reason, tt.status, tt.reason)
			}
		})
	}
}
