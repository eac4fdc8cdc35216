// Package chat implements chat creation, message appends, and completion
// history assembly on top of the store.
package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/landingchat/landingchat/plugin/prompt"
	"github.com/landingchat/landingchat/store"
)

// titleTimeout bounds the title generation call so a slow upstream cannot
// stall chat creation; the raw prompt serves as the fallback title.
const titleTimeout = 15 * time.Second

// TitleGenerator produces a short chat title from the user's initial
// request.
type TitleGenerator interface {
	GenerateTitle(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Service owns the chat lifecycle.
type Service struct {
	store  *store.Store
	titles TitleGenerator
}

// NewService creates a chat service. titles may be nil, in which case the
// raw prompt always serves as the title.
func NewService(st *store.Store, titles TitleGenerator) *Service {
	return &Service{store: st, titles: titles}
}

// CreateChatRequest carries the parameters of a new chat.
type CreateChatRequest struct {
	Prompt  string
	Model   string
	Quality store.Quality
	Shadcn  bool
}

// CreateChat creates a chat seeded with the system prompt at position 0 and
// the user's request at position 1. The returned message is the seeded user
// message the first completion continues from.
func (s *Service) CreateChat(ctx context.Context, req *CreateChatRequest) (*store.Chat, *store.Message, error) {
	if req.Prompt == "" {
		return nil, nil, errors.New("prompt is required")
	}
	if req.Model == "" {
		return nil, nil, errors.New("model is required")
	}
	if req.Quality != store.QualityHigh && req.Quality != store.QualityLow {
		return nil, nil, errors.Errorf("invalid quality: %s", req.Quality)
	}

	title := s.generateTitle(ctx, req.Prompt)
	systemPrompt := prompt.System(req.Quality == store.QualityHigh, req.Shadcn)

	now := time.Now().Unix()
	seeds := []*store.Message{
		{UID: shortuuid.New(), Role: store.MessageRoleSystem, Content: systemPrompt, Position: 0, CreatedTs: now},
		{UID: shortuuid.New(), Role: store.MessageRoleUser, Content: req.Prompt, Position: 1, CreatedTs: now},
	}

	chat, err := s.store.CreateChat(ctx, &store.Chat{
		UID:       shortuuid.New(),
		Title:     title,
		Prompt:    req.Prompt,
		Model:     req.Model,
		Quality:   req.Quality,
		Shadcn:    req.Shadcn,
		CreatedTs: now,
		UpdatedTs: now,
	}, seeds)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create chat")
	}

	return chat, seeds[len(seeds)-1], nil
}

// AppendMessage appends a message to the chat identified by UID at the next
// free position.
func (s *Service) AppendMessage(ctx context.Context, chatUID string, role store.MessageRole, content string) (*store.Message, error) {
	switch role {
	case store.MessageRoleUser, store.MessageRoleAssistant:
	default:
		return nil, errors.Errorf("invalid role: %s", role)
	}
	if content == "" {
		return nil, errors.New("content is required")
	}

	chat, err := s.store.GetChat(ctx, &store.FindChat{UID: &chatUID})
	if err != nil {
		return nil, err
	}

	return s.store.AppendMessage(ctx, &store.Message{
		UID:       shortuuid.New(),
		ChatID:    chat.ID,
		Role:      role,
		Content:   content,
		CreatedTs: time.Now().Unix(),
	})
}

// GetChat returns the chat with the given UID.
// DeleteChat removes the chat and all of its messages.
func (s *Service) DeleteChat(ctx context.Context, chatUID string) error {
	chat, err := s.store.GetChat(ctx, &store.FindChat{UID: &chatUID})
	if err != nil {
		return err
	}
	return s.store.DeleteChat(ctx, &store.DeleteChat{ID: chat.ID})
}

func (s *Service) GetChat(ctx context.Context, chatUID string) (*store.Chat, error) {
	return s.store.GetChat(ctx, &store.FindChat{UID: &chatUID})
}

// ListChats returns all chats, newest activity first.
func (s *Service) ListChats(ctx context.Context) ([]*store.Chat, error) {
	return s.store.ListChats(ctx, &store.FindChat{})
}

// ListMessages returns the chat's messages ordered by position.
func (s *Service) ListMessages(ctx context.Context, chatUID string) ([]*store.Message, error) {
	chat, err := s.store.GetChat(ctx, &store.FindChat{UID: &chatUID})
	if err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, &store.FindMessage{ChatID: &chat.ID})
}

// History returns the chat and the ordered messages up to and including the
// message with the given UID. This is the completion context: every message
// the model should see when continuing from that point.
func (s *Service) History(ctx context.Context, messageUID string) (*store.Chat, []*store.Message, error) {
	message, err := s.store.GetMessage(ctx, &store.FindMessage{UID: &messageUID})
	if err != nil {
		return nil, nil, err
	}

	chat, err := s.store.GetChat(ctx, &store.FindChat{ID: &message.ChatID})
	if err != nil {
		return nil, nil, err
	}

	messages, err := s.store.ListMessages(ctx, &store.FindMessage{
		ChatID:      &message.ChatID,
		MaxPosition: &message.Position,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list history")
	}

	for _, m := range messages {
		switch m.Role {
		case store.MessageRoleSystem, store.MessageRoleUser, store.MessageRoleAssistant:
		default:
			return nil, nil, errors.Errorf("corrupt history: unknown role %q", m.Role)
		}
	}

	return chat, messages, nil
}

func (s *Service) generateTitle(ctx context.Context, userPrompt string) string {
	if s.titles == nil {
		return userPrompt
	}

	titleCtx, cancel := context.WithTimeout(ctx, titleTimeout)
	defer cancel()

	title, err := s.titles.GenerateTitle(titleCtx, prompt.Title, userPrompt)
	if err != nil {
		slog.Warn("title generation failed, falling back to prompt", "error", err)
		return userPrompt
	}
	if title == "" {
		return userPrompt
	}
	return title
}
