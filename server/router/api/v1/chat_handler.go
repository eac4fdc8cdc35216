package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apierrors "github.com/landingchat/landingchat/server/internal/errors"
	"github.com/landingchat/landingchat/server/service/chat"
	"github.com/landingchat/landingchat/store"
)

type createChatRequest struct {
	Prompt  string `json:"prompt"`
	Model   string `json:"model"`
	Quality string `json:"quality"`
	Shadcn  bool   `json:"shadcn"`
}

type chatResponse struct {
	UID       string `json:"uid"`
	Title     string `json:"title"`
	Prompt    string `json:"prompt"`
	Model     string `json:"model"`
	Quality   string `json:"quality"`
	Shadcn    bool   `json:"shadcn"`
	CreatedTs int64  `json:"createdTs"`
	UpdatedTs int64  `json:"updatedTs"`
}

type createChatResponse struct {
	Chat           chatResponse `json:"chat"`
	LastMessageUID string       `json:"lastMessageUid"`
}

type getChatResponse struct {
	Chat     chatResponse      `json:"chat"`
	Messages []messageResponse `json:"messages"`
}

type messageResponse struct {
	UID       string `json:"uid"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Position  int32  `json:"position"`
	CreatedTs int64  `json:"createdTs"`
}

type createMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CreateChat handles POST /api/v1/chats. It creates the chat with its seed
// messages and returns the UID of the seeded user message so the client can
// start the first completion from it.
func (s *APIV1Service) CreateChat(c echo.Context) error {
	req := &createChatRequest{}
	if err := c.Bind(req); err != nil {
		return s.respondError(c, apierrors.InvalidArgument("malformed request body"))
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return s.respondError(c, apierrors.InvalidArgument("prompt is required"))
	}
	if req.Model == "" {
		req.Model = s.Profile.LLMDefaultModel
	}
	quality := store.Quality(req.Quality)
	if quality == "" {
		quality = store.QualityHigh
	}
	if quality != store.QualityHigh && quality != store.QualityLow {
		return s.respondError(c, apierrors.InvalidArgument("quality must be high or low"))
	}

	created, lastMessage, err := s.ChatService.CreateChat(c.Request().Context(), &chat.CreateChatRequest{
		Prompt:  req.Prompt,
		Model:   req.Model,
		Quality: quality,
		Shadcn:  req.Shadcn,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	s.Metrics.ChatsCreatedTotal.Inc()
	s.logger.Info("chat created", "chat_uid", created.UID, "model", created.Model, "quality", created.Quality)

	return c.JSON(http.StatusCreated, createChatResponse{
		Chat:           convertChat(created),
		LastMessageUID: lastMessage.UID,
	})
}

// ListChats handles GET /api/v1/chats.
func (s *APIV1Service) ListChats(c echo.Context) error {
	chats, err := s.ChatService.ListChats(c.Request().Context())
	if err != nil {
		return s.respondError(c, err)
	}

	response := make([]chatResponse, 0, len(chats))
	for _, item := range chats {
		response = append(response, convertChat(item))
	}
	return c.JSON(http.StatusOK, response)
}

// GetChat handles GET /api/v1/chats/:uid. The response carries the chat
// together with its ordered messages so the client can restore a session
// in one round trip.
func (s *APIV1Service) GetChat(c echo.Context) error {
	found, err := s.ChatService.GetChat(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return s.respondError(c, err)
	}
	messages, err := s.ChatService.ListMessages(c.Request().Context(), found.UID)
	if err != nil {
		return s.respondError(c, err)
	}

	response := getChatResponse{Chat: convertChat(found), Messages: make([]messageResponse, 0, len(messages))}
	for _, message := range messages {
		response.Messages = append(response.Messages, convertMessage(message))
	}
	return c.JSON(http.StatusOK, response)
}

// DeleteChat handles DELETE /api/v1/chats/:uid. Messages are removed with
// the chat.
func (s *APIV1Service) DeleteChat(c echo.Context) error {
	if err := s.ChatService.DeleteChat(c.Request().Context(), c.Param("uid")); err != nil {
		return s.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMessages handles GET /api/v1/chats/:uid/messages.
func (s *APIV1Service) ListMessages(c echo.Context) error {
	messages, err := s.ChatService.ListMessages(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return s.respondError(c, err)
	}

	response := make([]messageResponse, 0, len(messages))
	for _, message := range messages {
		response = append(response, convertMessage(message))
	}
	return c.JSON(http.StatusOK, response)
}

// CreateMessage handles POST /api/v1/chats/:uid/messages. Only user and
// assistant messages may be appended; the system prompt is fixed at chat
// creation.
func (s *APIV1Service) CreateMessage(c echo.Context) error {
	req := &createMessageRequest{}
	if err := c.Bind(req); err != nil {
		return s.respondError(c, apierrors.InvalidArgument("malformed request body"))
	}

	role := store.MessageRole(req.Role)
	if role != store.MessageRoleUser && role != store.MessageRoleAssistant {
		return s.respondError(c, apierrors.InvalidArgument("role must be user or assistant"))
	}
	if strings.TrimSpace(req.Content) == "" {
		return s.respondError(c, apierrors.InvalidArgument("content is required"))
	}

	message, err := s.ChatService.AppendMessage(c.Request().Context(), c.Param("uid"), role, req.Content)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, convertMessage(message))
}

func convertChat(chat *store.Chat) chatResponse {
	return chatResponse{
		UID:       chat.UID,
		Title:     chat.Title,
		Prompt:    chat.Prompt,
		Model:     chat.Model,
		Quality:   string(chat.Quality),
		Shadcn:    chat.Shadcn,
		CreatedTs: chat.CreatedTs,
		UpdatedTs: chat.UpdatedTs,
	}
}

func convertMessage(message *store.Message) messageResponse {
	return messageResponse{
		UID:       message.UID,
		Role:      string(message.Role),
		Content:   message.Content,
		Position:  message.Position,
		CreatedTs: message.CreatedTs,
	}
}
