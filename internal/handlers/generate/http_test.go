package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"titan-api/internal/bedrock"
	"titan-api/internal/setup"
	"titan-api/internal/titan"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type stubInvoker struct {
	onceBody  []byte
	onceErr   error
	src       bedrock.ChunkSource
	streamErr error

	gotPayload []byte
}

func (s *stubInvoker) InvokeOnce(_ context.Context, payload []byte) ([]byte, error) {
	s.gotPayload = payload
	return s.onceBody, s.onceErr
}

func (s *stubInvoker) InvokeStreaming(_ context.Context, payload []byte) (bedrock.ChunkSource, error) {
	s.gotPayload = payload
	if s.streamErr != nil {
		return nil, s.streamErr
	}
	return s.src, nil
}

func newPromptContext(body string) (*setup.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/prompt", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return &setup.Context{Context: c, Log: zap.NewNop().Sugar(), Reqid: "test"}, rec
}

func titanBody(t *testing.T, texts ...string) []byte {
	t.Helper()
	res := titan.Response{InputTextTokenCount: 1}
	for _, text := range texts {
		res.Results = append(res.Results, titan.Result{OutputText: text, CompletionReason: "FINISH"})
	}
	body, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestPromptSuccess(t *testing.T) {
	stub := &stubInvoker{onceBody: titanBody(t, "generated text")}
	h := NewHandler(stub, zap.NewNop().Sugar())

	c, rec := newPromptContext(`{"prompt": "hello"}`)
	if err := h.Prompt(c); err != nil {
		t.Fatalf("Prompt() err=%v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "generated text" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "generated text")
	}

	// The outbound payload carries the prompt with the fixed config.
	var payload map[string]any
	if err := json.Unmarshal(stub.gotPayload, &payload); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if payload["inputText"] != "hello" {
		t.Errorf("payload inputText = %v, want hello", payload["inputText"])
	}
}

func TestPromptBadBody(t *testing.T) {
	h := NewHandler(&stubInvoker{}, zap.NewNop().Sugar())

	c, rec := newPromptContext(`{"prompt": `)
	if err := h.Prompt(c); err != nil {
		t.Fatalf("Prompt() err=%v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPromptErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		stub *stubInvoker
		want int
	}{
		{"upstream failure", &stubInvoker{onceErr: errors.New("dial tcp: timeout")}, http.StatusBadGateway},
		{"undecodable response", &stubInvoker{onceBody: []byte("not json")}, http.StatusInternalServerError},
		{"no results", &stubInvoker{onceBody: titanBody(t)}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(tc.stub, zap.NewNop().Sugar())
			c, rec := newPromptContext(`{"prompt": "hello"}`)
			if err := h.Prompt(c); err != nil {
				t.Fatalf("Prompt() err=%v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestPromptStreamedWritesFragments(t *testing.T) {
	src := &fakeSource{chunks: []bedrock.Chunk{
		dataChunk(t, "Hello"),
		dataChunk(t, ", "),
		dataChunk(t, "world"),
	}}
	h := NewHandler(&stubInvoker{src: src}, zap.NewNop().Sugar())

	c, rec := newPromptContext(`{"prompt": "hello"}`)
	if err := h.PromptStreamed(c); err != nil {
		t.Fatalf("PromptStreamed() err=%v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", got)
	}
	if rec.Body.String() != "Hello, world" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "Hello, world")
	}
	if !src.closed {
		t.Error("stream source was not closed")
	}
}

func TestPromptStreamedEndsEarlyOnBadChunk(t *testing.T) {
	src := &fakeSource{chunks: []bedrock.Chunk{
		dataChunk(t, "Hello"),
		{Bytes: []byte("not json")},
		dataChunk(t, "never"),
	}}
	h := NewHandler(&stubInvoker{src: src}, zap.NewNop().Sugar())

	c, rec := newPromptContext(`{"prompt": "hello"}`)
	if err := h.PromptStreamed(c); err != nil {
		t.Fatalf("PromptStreamed() err=%v", err)
	}

	// Still a 200; the body just ends after the last good fragment.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "Hello" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "Hello")
	}
}

func TestPromptStreamedOpenFailure(t *testing.T) {
	h := NewHandler(&stubInvoker{streamErr: errors.New("dial tcp: timeout")}, zap.NewNop().Sugar())

	c, rec := newPromptContext(`{"prompt": "hello"}`)
	if err := h.PromptStreamed(c); err != nil {
		t.Fatalf("PromptStreamed() err=%v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestPromptStreamedBadBody(t *testing.T) {
	h := NewHandler(&stubInvoker{}, zap.NewNop().Sugar())

	c, rec := newPromptContext(`not json`)
	if err := h.PromptStreamed(c); err != nil {
		t.Fatalf("PromptStreamed() err=%v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
