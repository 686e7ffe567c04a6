package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/housie/internal/domain/game"
	"github.com/riskibarqy/housie/internal/platform/random"
	"github.com/riskibarqy/housie/internal/platform/resilience"
	"github.com/riskibarqy/housie/internal/usecase"
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

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "invalid input", err: fmt.Errorf("%w: name", usecase.ErrInvalidInput), wantStatus: http.StatusBadRequest, wantCode: "INVALID_ARGUMENT"},
		{name: "not found", err: fmt.Errorf("%w: game=g1", usecase.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "game complete", err: fmt.Errorf("%w: game=g1", game.ErrGameComplete), wantStatus: http.StatusConflict, wantCode: "FAILED_PRECONDITION"},
		{name: "cooldown", err: fmt.Errorf("%w: retry in 1s", resilience.ErrCooldownActive), wantStatus: http.StatusTooManyRequests, wantCode: "RESOURCE_EXHAUSTED"},
		{name: "dependency", err: fmt.Errorf("%w: db down", usecase.ErrDependencyUnavailable), wantStatus: http.StatusServiceUnavailable, wantCode: "UNAVAILABLE"},
		{name: "random failure", err: fmt.Errorf("draw: %w", random.ErrEmptyInput), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(context.Background(), tt.err)
			if got.HTTPStatus != tt.wantStatus || got.Status != tt.wantCode {
				t.Fatalf("mapError(%v)=%d/%s want=%d/%s", tt.err, got.HTTPStatus, got.Status, tt.wantStatus, tt.wantCode)
			}
		})
	}
}
