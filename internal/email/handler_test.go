package email

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHandler() *Handler {
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleSend(t *testing.T) {
	h := newTestHandler()

	body := `{"to":"admin@homly.test","subject":"New order","body":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleSend(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp sendResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "sent" {
		t.Errorf("status field = %q, want sent", resp.Status)
	}
}

func TestHandleSendValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{"},
		{"missing recipient", `{"subject":"hi","body":"x"}`},
		{"missing subject", `{"to":"admin@homly.test","body":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.HandleSend(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}
