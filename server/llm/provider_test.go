package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewProvider(&Config{
		BaseURL:    server.URL + "/v1",
		APIKey:     "test-key",
		TitleModel: "anthropic/claude-3.5-sonnet",
		MaxRetries: 1,
	})
	require.NoError(t, err)
	return provider
}

func writeStreamChunk(w http.ResponseWriter, content string) {
	resp := openai.ChatCompletionStreamResponse{
		Object: "chat.completion.chunk",
		Choices: []openai.ChatCompletionStreamChoice{
			{Delta: openai.ChatCompletionStreamChoiceDelta{Content: content}},
		},
	}
	data, _ := json.Marshal(resp)
	fmt.Fprintf(w, "data: %s\n\n", data)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func TestGenerateTitle(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		require.Equal(t, "system", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "  ساعت دیجیتال  "}},
			},
		})
	})

	title, err := provider.GenerateTitle(context.Background(), "make a title", "یک ساعت دیجیتال بساز")
	require.NoError(t, err)
	require.Equal(t, "ساعت دیجیتال", title)
}

func TestStreamChat(t *testing.T) {
	chunks := []string{"بریم ", "سراغ کد:\n", "```tsx\n", "const a = 1;\n", "```"}

	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, req.Stream)
		require.InDelta(t, 0.2, req.Temperature, 0.001)
		require.Equal(t, 6000, req.MaxTokens)

		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range chunks {
			writeStreamChunk(w, chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	contentChan, errChan := provider.StreamChat(context.Background(), "anthropic/claude-3.5-sonnet", []Message{
		{Role: "system", Content: "system prompt"},
		{Role: "user", Content: "یک ساعت دیجیتال بساز"},
	})

	var received []string
	for chunk := range contentChan {
		received = append(received, chunk)
	}
	require.Equal(t, chunks, received)
	require.NoError(t, <-errChan)
}

func TestStreamChatMidStreamError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeStreamChunk(w, "partial output")
		// Drop the connection before [DONE] to simulate an upstream failure.
		if hj, ok := w.(http.Hijacker); ok {
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
		}
	})

	contentChan, errChan := provider.StreamChat(context.Background(), "anthropic/claude-3.5-sonnet", []Message{
		{Role: "user", Content: "hi"},
	})

	var received []string
	for chunk := range contentChan {
		received = append(received, chunk)
	}
	require.Equal(t, []string{"partial output"}, received)
	require.Error(t, <-errChan)
}

func TestStreamChatCancellation(t *testing.T) {
	release := make(chan struct{})
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeStreamChunk(w, "first")
		<-release
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	contentChan, errChan := provider.StreamChat(ctx, "anthropic/claude-3.5-sonnet", []Message{
		{Role: "user", Content: "hi"},
	})

	select {
	case chunk := <-contentChan:
		require.Equal(t, "first", chunk)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first chunk")
	}

	cancel()

	for range contentChan {
	}
	require.Error(t, <-errChan)
}

func TestStreamChatStartupFailure(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "model overloaded"}}`, http.StatusBadGateway)
	})

	contentChan, errChan := provider.StreamChat(context.Background(), "anthropic/claude-3.5-sonnet", []Message{
		{Role: "user", Content: "hi"},
	})

	for range contentChan {
	}
	require.Error(t, <-errChan)
}
