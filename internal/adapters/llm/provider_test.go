package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestNormalizeProvider(t *testing.T) {
	cases := map[string]string{
		"":                  ProviderGemini,
		"Google":            ProviderGemini,
		" gemini ":          ProviderGemini,
		"OPEN_AI":           ProviderOpenAI,
		"openai compatible": ProviderOpenAI,
		"Claude":            ProviderAnthropic,
		"anthropic":         ProviderAnthropic,
		"mistral":           "mistral",
	}
	for in, want := range cases {
		if got := normalizeProvider(in); got != want {
			t.Fatalf("normalizeProvider(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(context.Background(), Config{Provider: "openai"}); err == nil {
		t.Fatalf("expected error without api key")
	}
	if _, err := New(context.Background(), Config{Provider: "mistral", APIKey: "k"}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

// fakeUpstream answers every request with body and records the last request body.
type fakeUpstream struct {
	mu     sync.Mutex
	hits   int
	path   string
	body   map[string]any
	status int
	reply  string
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits++
	f.path = r.URL.Path
	b, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(b, &f.body)
	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
	}
	_, _ = io.WriteString(w, f.reply)
}

func TestProviders_Generate(t *testing.T) {
	cases := []struct {
		provider string
		pathTail string
		reply    string
	}{
		{
			provider: ProviderOpenAI,
			pathTail: "/chat/completions",
			reply:    `{"id":"c1","object":"chat.completion","created":0,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"history\":\"x\"}"}}]}`,
		},
		{
			provider: ProviderAnthropic,
			pathTail: "/v1/messages",
			reply:    `{"id":"m1","type":"message","role":"assistant","model":"m","content":[{"type":"text","text":"{\"history\":"},{"type":"text","text":"\"x\"}"}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`,
		},
		{
			provider: ProviderGemini,
			pathTail: ":generateContent",
			reply:    `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"history\":\"x\"}"}]}}]}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			up := &fakeUpstream{reply: tc.reply}
			srv := httptest.NewServer(up)
			defer srv.Close()

			gen, err := New(context.Background(), Config{Provider: tc.provider, APIKey: "k", BaseURL: srv.URL, Model: "m"})
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			out, err := gen.Generate(context.Background(), "Tell me about Paris")
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if out != `{"history":"x"}` {
				t.Fatalf("completion: %q", out)
			}
			if !strings.HasSuffix(up.path, tc.pathTail) {
				t.Fatalf("unexpected path %s", up.path)
			}
			if !strings.Contains(mustJSON(t, up.body), "Tell me about Paris") {
				t.Fatalf("prompt not sent: %v", up.body)
			}
		})
	}
}

func TestOpenAI_EmptyAndErrorsAreNotRetried(t *testing.T) {
	up := &fakeUpstream{reply: `{"id":"c1","object":"chat.completion","created":0,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  "}}]}`}
	srv := httptest.NewServer(up)
	defer srv.Close()

	gen, err := New(context.Background(), Config{Provider: ProviderOpenAI, APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := gen.Generate(context.Background(), "p"); !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}

	up.mu.Lock()
	up.status, up.reply, up.hits = http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"rate_limit"}}`, 0
	up.mu.Unlock()
	if _, err := gen.Generate(context.Background(), "p"); err == nil {
		t.Fatalf("expected error on 429")
	}
	if up.hits != 1 {
		t.Fatalf("expected a single attempt, got %d", up.hits)
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}
