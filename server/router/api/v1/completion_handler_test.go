package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func listChatMessages(t *testing.T, server *httptest.Server, chatUID string) []messageResponse {
	resp, err := http.Get(server.URL + "/api/v1/chats/" + chatUID + "/messages")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var messages []messageResponse
	decodeJSON(t, resp, &messages)
	return messages
}

func TestStreamCompletion(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{"سلام", "const a = 1;\nconst b = 2;", "!"}}
	server, _ := newTestServer(t, streamer)
	created := mustCreateChat(t, server, "ساعت دیجیتال")

	resp, err := http.Post(server.URL+"/api/v1/messages/"+created.LastMessageUID+"/completion", "", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body := readBody(t, resp)
	want := "data: سلام\n\n" +
		"data: const a = 1;\ndata: const b = 2;\n\n" +
		"data: !\n\n" +
		"data: [DONE]\n\n"
	require.Equal(t, want, body)

	messages := listChatMessages(t, server, created.Chat.UID)
	require.Len(t, messages, 3)
	last := messages[2]
	require.Equal(t, "assistant", last.Role)
	require.EqualValues(t, 2, last.Position)
	require.Equal(t, "سلامconst a = 1;\nconst b = 2;!", last.Content)
}

func TestStreamCompletionModelOverride(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{"ok"}}
	server, _ := newTestServer(t, streamer)
	created := mustCreateChat(t, server, "ساعت دیجیتال")

	resp, err := http.Get(server.URL + "/api/v1/messages/" + created.LastMessageUID + "/completion?model=anthropic/claude-3.7-sonnet")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = readBody(t, resp)

	require.Equal(t, "anthropic/claude-3.7-sonnet", streamer.gotModel)
	// The full seeded history goes upstream: system prompt then user prompt.
	require.Len(t, streamer.gotMessages, 2)
	require.Equal(t, "system", streamer.gotMessages[0].Role)
	require.Equal(t, "ساعت دیجیتال", streamer.gotMessages[1].Content)
}

func TestStreamCompletionStartupFailure(t *testing.T) {
	streamer := &fakeStreamer{err: errors.New("upstream unavailable")}
	server, _ := newTestServer(t, streamer)
	created := mustCreateChat(t, server, "ساعت دیجیتال")

	resp, err := http.Post(server.URL+"/api/v1/messages/"+created.LastMessageUID+"/completion", "", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body errorResponse
	decodeJSON(t, resp, &body)
	require.Equal(t, "UPSTREAM_ERROR", body.Code)

	require.Len(t, listChatMessages(t, server, created.Chat.UID), 2)
}

func TestStreamCompletionEmptyStream(t *testing.T) {
	server, _ := newTestServer(t, &fakeStreamer{})
	created := mustCreateChat(t, server, "ساعت دیجیتال")

	resp, err := http.Post(server.URL+"/api/v1/messages/"+created.LastMessageUID+"/completion", "", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	require.Len(t, listChatMessages(t, server, created.Chat.UID), 2)
}

func TestStreamCompletionMidStreamError(t *testing.T) {
	streamer := &fakeStreamer{
		chunks: []string{"بخش اول"},
		err:    errors.New("connection reset"),
	}
	server, _ := newTestServer(t, streamer)
	created := mustCreateChat(t, server, "ساعت دیجیتال")

	resp, err := http.Post(server.URL+"/api/v1/messages/"+created.LastMessageUID+"/completion", "", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	require.Contains(t, body, "data: بخش اول\n\n")
	// A truncated stream never carries the terminator, so clients can tell
	// it apart from a clean finish.
	require.NotContains(t, body, "[DONE]")

	require.Len(t, listChatMessages(t, server, created.Chat.UID), 2)
}

func TestStreamCompletionClientCancel(t *testing.T) {
	server, _ := newTestServer(t, &blockingStreamer{first: "در حال ساخت"})
	created := mustCreateChat(t, server, "ساعت دیجیتال")

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		server.URL+"/api/v1/messages/"+created.LastMessageUID+"/completion", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Wait for the first flushed event, then walk away mid-stream.
	buf := make([]byte, 64)
	_, err = resp.Body.Read(buf)
	require.NoError(t, err)
	cancel()

	// Give the handler time to observe the cancellation and exit, then
	// confirm nothing was persisted.
	time.Sleep(300 * time.Millisecond)
	require.Len(t, listChatMessages(t, server, created.Chat.UID), 2)
}

func TestStreamCompletionUnknownMessage(t *testing.T) {
	server, _ := newTestServer(t, &fakeStreamer{chunks: []string{"x"}})

	resp, err := http.Post(server.URL+"/api/v1/messages/missing/completion", "", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = readBody(t, resp)
}

func TestStreamCompletionRateLimit(t *testing.T) {
	server, _ := newTestServer(t, &fakeStreamer{chunks: []string{"x"}})

	statuses := make([]int, 0, 8)
	for i := 0; i < 8; i++ {
		resp, err := http.Post(server.URL+"/api/v1/messages/missing/completion", "", nil)
		require.NoError(t, err)
		_ = readBody(t, resp)
		statuses = append(statuses, resp.StatusCode)
	}

	limited := 0
	for _, status := range statuses {
		if status == http.StatusTooManyRequests {
			limited++
		}
	}
	require.Positive(t, limited)
}

func TestStreamCompletionNotConfigured(t *testing.T) {
	server, _ := newTestServer(t, nil)
	created := mustCreateChat(t, server, "ساعت دیجیتال")

	resp, err := http.Post(server.URL+"/api/v1/messages/"+created.LastMessageUID+"/completion", "", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.True(t, strings.Contains(readBody(t, resp), "not configured"))
}
