// Package v1 exposes the REST and SSE endpoints of the API.
package v1

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/image/font"

	"github.com/landingchat/landingchat/internal/observability"
	"github.com/landingchat/landingchat/internal/profile"
	"github.com/landingchat/landingchat/server/llm"
	apierrors "github.com/landingchat/landingchat/server/internal/errors"
	"github.com/landingchat/landingchat/server/middleware"
	"github.com/landingchat/landingchat/server/service/chat"
	"github.com/landingchat/landingchat/store"
)

// CompletionStreamer streams a model completion for a message history.
type CompletionStreamer interface {
	StreamChat(ctx context.Context, model string, messages []llm.Message) (<-chan string, <-chan error)
}

type APIV1Service struct {
	Profile     *profile.Profile
	Store       *store.Store
	ChatService *chat.Service
	Streamer    CompletionStreamer
	Metrics     *observability.Metrics

	logger          *slog.Logger
	completionLimit *middleware.RateLimiter

	ogFaceOnce  sync.Once
	ogTitleFace font.Face
}

func NewAPIV1Service(p *profile.Profile, st *store.Store, chatService *chat.Service, streamer CompletionStreamer, metrics *observability.Metrics) *APIV1Service {
	return &APIV1Service{
		Profile:     p,
		Store:       st,
		ChatService: chatService,
		Streamer:    streamer,
		Metrics:     metrics,

		logger: slog.Default(),
		// One completion per 3 seconds per client, short bursts allowed.
		completionLimit: middleware.NewRateLimiter(3*time.Second, 5),
	}
}

// RegisterRoutes mounts all API and share routes on e.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	api := e.Group(s.Profile.BasePath + "/api/v1")

	api.POST("/chats", s.CreateChat)
	api.GET("/chats", s.ListChats)
	api.GET("/chats/:uid", s.GetChat)
	api.DELETE("/chats/:uid", s.DeleteChat)
	api.GET("/chats/:uid/messages", s.ListMessages)
	api.POST("/chats/:uid/messages", s.CreateMessage)
	// EventSource clients can only issue GETs, so the completion endpoint
	// accepts both.
	api.GET("/messages/:uid/completion", s.StreamCompletion)
	api.POST("/messages/:uid/completion", s.StreamCompletion)
	api.GET("/models", s.ListModels)
	api.GET("/suggestions", s.ListSuggestions)

	share := e.Group(s.Profile.BasePath + "/share")
	share.GET("/:uid", s.SharePage)
	share.GET("/:uid/image", s.ShareImage)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError translates service and store errors into HTTP responses.
func (s *APIV1Service) respondError(c echo.Context, err error) error {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return c.JSON(apiErr.HTTPStatus(), errorResponse{Code: string(apiErr.Code), Message: apiErr.Message})
	}
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{Code: string(apierrors.ErrCodeNotFound), Message: "not found"})
	}

	s.logger.Error("request failed", "path", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, errorResponse{Code: string(apierrors.ErrCodeInternal), Message: "internal error"})
}
