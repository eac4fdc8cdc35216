package v1

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/landingchat/landingchat/internal/observability"
	"github.com/landingchat/landingchat/server/llm"
	apierrors "github.com/landingchat/landingchat/server/internal/errors"
	"github.com/landingchat/landingchat/store"
)

// streamDone terminates a successful SSE completion stream.
const streamDone = "[DONE]"

// completionTimeout caps a single completion stream.
const completionTimeout = 5 * time.Minute

// StreamCompletion handles POST /api/v1/messages/:uid/completion. It
// streams the model's answer for the history up to and including the
// message, and persists the full answer as an assistant message only after
// the stream drained cleanly. A canceled request or an upstream failure
// leaves the chat untouched, so retrying the completion reuses the same
// position.
func (s *APIV1Service) StreamCompletion(c echo.Context) error {
	if s.Streamer == nil {
		return s.respondError(c, apierrors.UpstreamError("completions are not configured", nil))
	}
	if !s.completionLimit.Allow(c.RealIP()) {
		return s.respondError(c, apierrors.RateLimitExceeded("too many completion requests"))
	}

	// Completions are bounded even when the client never disconnects.
	ctx, cancelStream := context.WithTimeout(c.Request().Context(), completionTimeout)
	defer cancelStream()

	chatRecord, history, err := s.ChatService.History(ctx, c.Param("uid"))
	if err != nil {
		return s.respondError(c, err)
	}

	model := chatRecord.Model
	if override := c.QueryParam("model"); override != "" {
		model = override
	}

	reqCtx := observability.NewRequestContext(s.logger, chatRecord.UID)
	reqCtx.Info("completion started",
		slog.String(observability.LogFieldModel, model),
		slog.Int("history_len", len(history)))

	messages := make([]llm.Message, len(history))
	for i, message := range history {
		messages[i] = llm.Message{Role: string(message.Role), Content: message.Content}
	}

	contentChan, errChan := s.Streamer.StreamChat(ctx, model, messages)

	// Hold off on SSE headers until the upstream produced its first chunk,
	// so a startup failure can still surface as a JSON error response.
	var first string
	var started bool
	select {
	case chunk, ok := <-contentChan:
		if ok {
			first = chunk
			started = true
		}
	case <-ctx.Done():
		s.Metrics.CompletionRequestsTotal.WithLabelValues(observability.CompletionStatusCanceled).Inc()
		return nil
	}
	if !started {
		err := <-errChan
		s.Metrics.CompletionRequestsTotal.WithLabelValues(observability.CompletionStatusFailed).Inc()
		if err != nil {
			reqCtx.Error("completion failed before first byte", err)
			return s.respondError(c, apierrors.UpstreamError("completion failed", err))
		}
		// Closed without content and without error: an empty completion.
		return s.respondError(c, apierrors.UpstreamError("empty completion", nil))
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.Header().Set("X-Accel-Buffering", "no")
	resp.WriteHeader(http.StatusOK)

	var full strings.Builder
	chunks := 0
	startTime := time.Now()

	writeChunk := func(chunk string) error {
		if err := writeSSE(resp, chunk); err != nil {
			return err
		}
		resp.Flush()
		full.WriteString(chunk)
		chunks++
		s.Metrics.StreamChunksTotal.Inc()
		return nil
	}

	if err := writeChunk(first); err != nil {
		s.Metrics.CompletionRequestsTotal.WithLabelValues(observability.CompletionStatusCanceled).Inc()
		return nil
	}

	for chunk := range contentChan {
		if err := writeChunk(chunk); err != nil {
			s.Metrics.CompletionRequestsTotal.WithLabelValues(observability.CompletionStatusCanceled).Inc()
			reqCtx.Warn("client went away mid-stream",
				slog.Int(observability.LogFieldChunks, chunks),
				slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
			return nil
		}
	}

	s.Metrics.CompletionStreamDuration.Observe(time.Since(startTime).Seconds())

	if streamErr := <-errChan; streamErr != nil {
		// The stream broke after content was already sent. The client sees
		// a truncated stream without the terminator; nothing is persisted,
		// so a retry starts clean.
		status := observability.CompletionStatusFailed
		if ctx.Err() != nil {
			status = observability.CompletionStatusCanceled
		}
		s.Metrics.CompletionRequestsTotal.WithLabelValues(status).Inc()
		reqCtx.Error("completion stream aborted", streamErr,
			slog.Int(observability.LogFieldChunks, chunks),
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
		return nil
	}

	// Persist outside the request context: the response is complete and a
	// disconnect at this point must not lose the assistant message.
	persistCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.ChatService.AppendMessage(persistCtx, chatRecord.UID, store.MessageRoleAssistant, full.String()); err != nil {
		s.Metrics.CompletionRequestsTotal.WithLabelValues(observability.CompletionStatusFailed).Inc()
		reqCtx.Error("failed to persist assistant message", err)
		return nil
	}

	s.Metrics.CompletionRequestsTotal.WithLabelValues(observability.CompletionStatusCompleted).Inc()
	reqCtx.Info("completion finished",
		slog.Int(observability.LogFieldChunks, chunks),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))

	if err := writeSSE(resp, streamDone); err != nil {
		return nil
	}
	resp.Flush()
	return nil
}

// writeSSE frames one payload as a server-sent event. Newlines inside the
// payload become continuation data lines so the event parses back to the
// exact chunk.
func writeSSE(w *echo.Response, payload string) error {
	for _, line := range strings.Split(payload, "\n") {
		if _, err := fmt.Fprintf(w, "data: %s\n", line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "\n")
	return err
}
