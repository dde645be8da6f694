package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"minibank.dev/internal/application/usecase"
	"minibank.dev/internal/domain/entity"
	"minibank.dev/internal/infrastructure/logger"
	"minibank.dev/internal/infrastructure/repository"
)

func newTestHandler() *Handler {
	log := logger.NewLogger("error")
	ledger := repository.NewInMemoryLedger(log,
		entity.Account{Number: "1001", Holder: "Alice Smith", Balance: 1000},
		entity.Account{Number: "1002", Holder: "Bob Johnson", Balance: 1500},
	)
	return NewHandler(usecase.NewDispatchUseCase(ledger), log)
}

func TestHandler_HandleDispatch(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
		wantResult string
	}{
		{
			name:       "deposit",
			method:     http.MethodPost,
			body:       `{"operation":"deposit","account":"1001","params":{"amount":"500"}}`,
			wantStatus: http.StatusOK,
			wantResult: "Deposited $500.00. New balance: $1500.00",
		},
		{
			name:       "balance",
			method:     http.MethodPost,
			body:       `{"operation":"balance","account":"1001"}`,
			wantStatus: http.StatusOK,
			wantResult: "Account Balance: $1000.00\nMobile Credit: $0.00",
		},
		{
			name:       "wrong HTTP method",
			method:     http.MethodGet,
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "insufficient funds",
			method:     http.MethodPost,
			body:       `{"operation":"withdraw","account":"1001","params":{"amount":"2000"}}`,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknown account",
			method:     http.MethodPost,
			body:       `{"operation":"balance","account":"9999"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown operation",
			method:     http.MethodPost,
			body:       `{"operation":"bogus","account":"1001","params":{}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed amount",
			method:     http.MethodPost,
			body:       `{"operation":"deposit","account":"1001","params":{"amount":"abc"}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero amount",
			method:     http.MethodPost,
			body:       `{"operation":"deposit","account":"1001","params":{"amount":"0"}}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler()

			req := httptest.NewRequest(tt.method, "/dispatch", bytes.NewBufferString(tt.body))
			ctx := context.WithValue(req.Context(), "logger", logger.NewLogger("error"))
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.HandleDispatch(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Handler.HandleDispatch() status = %v, want %v", w.Code, tt.wantStatus)
			}

			if tt.wantResult != "" {
				var gotBody map[string]string
				if err := json.Unmarshal(w.Body.Bytes(), &gotBody); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if gotBody["result"] != tt.wantResult {
					t.Errorf("result = %q, want %q", gotBody["result"], tt.wantResult)
				}
			}
		})
	}
}

func TestHandler_HandleHealth(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Handler.HandleHealth() status = %v, want %v", w.Code, http.StatusOK)
	}

	var gotBody map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &gotBody); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if gotBody["status"] != "ok" {
		t.Errorf("status body = %v, want ok", gotBody["status"])
	}
}

func TestHandler_Integration_Scenarios(t *testing.T) {
	// End-to-end through middleware, dispatcher and the real ledger.
	handler := newTestHandler()
	srv := httptest.NewServer(handler.SetupRoutes())
	defer srv.Close()

	dispatch := func(t *testing.T, body string) (int, map[string]string) {
		t.Helper()
		resp, err := http.Post(srv.URL+"/dispatch", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST /dispatch: %v", err)
		}
		defer resp.Body.Close()
		var payload map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return resp.StatusCode, payload
	}

	steps := []struct {
		name       string
		body       string
		wantStatus int
		wantResult string
	}{
		{
			name:       "initial balance",
			body:       `{"operation":"balance","account":"1001"}`,
			wantStatus: http.StatusOK,
			wantResult: "Account Balance: $1000.00\nMobile Credit: $0.00",
		},
		{
			name:       "over-withdrawal rejected",
			body:       `{"operation":"withdraw","account":"1001","params":{"amount":"2000"}}`,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "balance unchanged after rejection",
			body:       `{"operation":"balance","account":"1001"}`,
			wantStatus: http.StatusOK,
			wantResult: "Account Balance: $1000.00\nMobile Credit: $0.00",
		},
		{
			name:       "transfer to second account",
			body:       `{"operation":"transfer","account":"1001","params":{"amount":"300","target_account":"1002"}}`,
			wantStatus: http.StatusOK,
			wantResult: "Transferred $300.00 to account 1002\nNew balance: $700.00",
		},
		{
			name:       "target received the transfer",
			body:       `{"operation":"balance","account":"1002"}`,
			wantStatus: http.StatusOK,
			wantResult: "Account Balance: $1800.00\nMobile Credit: $0.00",
		},
		{
			name:       "mobile top-up",
			body:       `{"operation":"top_up","account":"1001","params":{"amount":"100"}}`,
			wantStatus: http.StatusOK,
			wantResult: "Topped up mobile with $100.00\nAccount Balance: $600.00\nMobile Credit: $100.00",
		},
		{
			name:       "deposit",
			body:       `{"operation":"deposit","account":"1001","params":{"amount":"500"}}`,
			wantStatus: http.StatusOK,
			wantResult: "Deposited $500.00. New balance: $1100.00",
		},
		{
			name:       "bogus operation",
			body:       `{"operation":"bogus","account":"1001","params":{}}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			status, payload := dispatch(t, step.body)
			if status != step.wantStatus {
				t.Errorf("status = %v, want %v", status, step.wantStatus)
			}
			if step.wantResult != "" && payload["result"] != step.wantResult {
				t.Errorf("result = %q, want %q", payload["result"], step.wantResult)
			}
		})
	}
}

func TestHandler_ConcurrentDispatch(t *testing.T) {
	// Depositors and balance readers hammer the same account through the full
	// stack at once; every deposit must land and every read must succeed.
	handler := newTestHandler()
	srv := httptest.NewServer(handler.SetupRoutes())
	defer srv.Close()

	dispatch := func(body string) (int, map[string]string, error) {
		resp, err := http.Post(srv.URL+"/dispatch", "application/json", strings.NewReader(body))
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		var payload map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return 0, nil, err
		}
		return resp.StatusCode, payload, nil
	}

	const depositors = 50
	var wg sync.WaitGroup
	wg.Add(2 * depositors)
	for i := 0; i < depositors; i++ {
		go func() {
			defer wg.Done()
			status, payload, err := dispatch(`{"operation":"deposit","account":"1001","params":{"amount":"1"}}`)
			if err != nil {
				t.Errorf("deposit: %v", err)
				return
			}
			if status != http.StatusOK {
				t.Errorf("deposit status = %v, body = %v", status, payload)
			}
		}()
		go func() {
			defer wg.Done()
			status, payload, err := dispatch(`{"operation":"balance","account":"1001"}`)
			if err != nil {
				t.Errorf("balance: %v", err)
				return
			}
			if status != http.StatusOK {
				t.Errorf("balance status = %v, body = %v", status, payload)
			}
		}()
	}
	wg.Wait()

	status, payload, err := dispatch(`{"operation":"balance","account":"1001"}`)
	if err != nil {
		t.Fatalf("final balance: %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("final balance status = %v", status)
	}
	want := "Account Balance: $1050.00\nMobile Credit: $0.00"
	if payload["result"] != want {
		t.Errorf("final balance = %q, want %q", payload["result"], want)
	}
}
