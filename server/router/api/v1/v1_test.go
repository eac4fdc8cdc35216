package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/landingchat/landingchat/internal/observability"
	"github.com/landingchat/landingchat/internal/profile"
	"github.com/landingchat/landingchat/server/llm"
	"github.com/landingchat/landingchat/server/service/chat"
	storetest "github.com/landingchat/landingchat/store/test"
)

// fakeStreamer replays a fixed set of chunks, optionally ending with an
// error instead of a clean close.
type fakeStreamer struct {
	chunks []string
	err    error

	gotModel    string
	gotMessages []llm.Message
}

func (f *fakeStreamer) StreamChat(ctx context.Context, model string, messages []llm.Message) (<-chan string, <-chan error) {
	f.gotModel = model
	f.gotMessages = messages
	contentChan := make(chan string)
	errChan := make(chan error, 1)
	go func() {
		defer close(contentChan)
		defer close(errChan)
		for _, chunk := range f.chunks {
			select {
			case contentChan <- chunk:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
		if f.err != nil {
			errChan <- f.err
		}
	}()
	return contentChan, errChan
}

// blockingStreamer emits one chunk and then waits for the request context
// to be canceled.
type blockingStreamer struct {
	first string
}

func (b *blockingStreamer) StreamChat(ctx context.Context, _ string, _ []llm.Message) (<-chan string, <-chan error) {
	contentChan := make(chan string)
	errChan := make(chan error, 1)
	go func() {
		defer close(contentChan)
		defer close(errChan)
		select {
		case contentChan <- b.first:
		case <-ctx.Done():
			errChan <- ctx.Err()
			return
		}
		<-ctx.Done()
		errChan <- ctx.Err()
	}()
	return contentChan, errChan
}

func newTestServer(t *testing.T, streamer CompletionStreamer) (*httptest.Server, *APIV1Service) {
	ctx := context.Background()
	ts := storetest.NewTestingStore(ctx, t)

	p := &profile.Profile{
		Mode:            "dev",
		Driver:          "sqlite",
		DSN:             ":memory:",
		PublicURL:       "https://landing.chat",
		LLMDefaultModel: "anthropic/claude-3.5-sonnet",
	}
	chatService := chat.NewService(ts, nil)
	apiService := NewAPIV1Service(p, ts, chatService, streamer, observability.NewMetricsWith(prometheus.NewRegistry()))

	e := echo.New()
	e.HideBanner = true
	apiService.RegisterRoutes(e)

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	return server, apiService
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, echo.MIMEApplicationJSON, bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func readBody(t *testing.T, resp *http.Response) string {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

// mustCreateChat creates a chat over HTTP and returns the response payload.
func mustCreateChat(t *testing.T, server *httptest.Server, prompt string) createChatResponse {
	resp := postJSON(t, server.URL+"/api/v1/chats", createChatRequest{Prompt: prompt, Shadcn: true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created createChatResponse
	decodeJSON(t, resp, &created)
	return created
}

func TestListModels(t *testing.T) {
	server, _ := newTestServer(t, nil)

	resp, err := http.Get(server.URL + "/api/v1/models")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var options []modelOption
	decodeJSON(t, resp, &options)
	require.Len(t, options, 1)
	require.Equal(t, "Claude 3.5 Sonnet", options[0].Label)
	require.Equal(t, "anthropic/claude-3.5-sonnet", options[0].Value)
}

func TestListSuggestions(t *testing.T) {
	server, _ := newTestServer(t, nil)

	resp, err := http.Get(server.URL + "/api/v1/suggestions")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var prompts []suggestedPrompt
	decodeJSON(t, resp, &prompts)
	require.Len(t, prompts, 4)
	require.Equal(t, "لندینگ محصول", prompts[0].Title)
	for _, prompt := range prompts {
		require.NotEmpty(t, prompt.Description)
	}
}
