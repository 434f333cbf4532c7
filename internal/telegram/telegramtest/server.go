// Package telegramtest provides an in-process fake of the Telegram Bot API
// for tests.
package telegramtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Token is accepted by every fake server.
const Token = "123456:TEST-token"

// Call is one recorded Bot API request.
type Call struct {
	Method string
	Params map[string]string
}

// Server records Bot API calls and answers them with canned results.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	calls   []Call
	results map[string]any
	errors  map[string]string
}

// NewServer starts a fake that answers getMe, webhook and sendMessage calls
// successfully. Close it when done.
func NewServer() *Server {
	s := &Server{
		results: map[string]any{
			"getMe":         map[string]any{"id": 123456, "is_bot": true, "first_name": "Trans", "username": "trans_bot"},
			"setWebhook":    true,
			"deleteWebhook": true,
			"getWebhookInfo": map[string]any{
				"url":                    "",
				"has_custom_certificate": false,
				"pending_update_count":   0,
			},
			"sendMessage":    map[string]any{"message_id": 1, "date": 1, "chat": map[string]any{"id": 1, "type": "private"}},
			"sendChatAction": true,
		},
		errors: map[string]string{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// SetResult overrides the result returned for method.
func (s *Server) SetResult(method string, result any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[method] = result
	delete(s.errors, method)
}

// SetError makes method fail with description.
func (s *Server) SetError(method, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[method] = description
}

// Calls returns the recorded calls of method, or all calls if method is "".
func (s *Server) Calls(method string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.calls {
		if method == "" || c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Methods returns the method names called, in order.
func (s *Server) Methods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Method)
	}
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	// Path is /bot<token>/<method>.
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if len(parts) != 2 || parts[0] != "bot"+Token {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
		return
	}
	method := parts[1]

	params := map[string]string{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for k, v := range r.MultipartForm.Value {
				if len(v) > 0 {
					params[k] = v[0]
				}
			}
		}
	} else if err := r.ParseForm(); err == nil {
		for k, v := range r.Form {
			if len(v) > 0 {
				params[k] = v[0]
			}
		}
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: method, Params: params})
	result, ok := s.results[method]
	description, failed := s.errors[method]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failed {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error_code": 400, "description": description})
		return
	}
	if !ok {
		result = true
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
}
