package store

import (
	"context"
	"fmt"
	"time"

	"github.com/landingchat/landingchat/internal/profile"
	"github.com/landingchat/landingchat/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	cacheConfig cache.Config

	// chatCache keeps chats by UID for the share page hot path. Entries
	// are invalidated whenever a message is appended to the chat.
	chatCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}

	return &Store{
		driver:      driver,
		profile:     profile,
		cacheConfig: cacheConfig,
		chatCache:   cache.New(cacheConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.chatCache.Close()
	return s.driver.Close()
}

func (s *Store) CreateChat(ctx context.Context, create *Chat, seeds []*Message) (*Chat, error) {
	return s.driver.CreateChat(ctx, create, seeds)
}

func (s *Store) ListChats(ctx context.Context, find *FindChat) ([]*Chat, error) {
	return s.driver.ListChats(ctx, find)
}

// GetChat returns the single chat matching find, or ErrNotFound.
func (s *Store) GetChat(ctx context.Context, find *FindChat) (*Chat, error) {
	if find.UID != nil {
		if value, ok := s.chatCache.Get(chatCacheKey(*find.UID)); ok {
			if chat, ok := value.(*Chat); ok {
				return chat, nil
			}
		}
	}

	chats, err := s.driver.ListChats(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return nil, ErrNotFound
	}

	chat := chats[0]
	s.chatCache.Set(chatCacheKey(chat.UID), chat)
	return chat, nil
}

func (s *Store) DeleteChat(ctx context.Context, delete *DeleteChat) error {
	// Drop the cached copy before the row disappears.
	chats, err := s.driver.ListChats(ctx, &FindChat{ID: &delete.ID})
	if err == nil && len(chats) == 1 {
		s.chatCache.Delete(chatCacheKey(chats[0].UID))
	}
	return s.driver.DeleteChat(ctx, delete)
}

func (s *Store) AppendMessage(ctx context.Context, create *Message) (*Message, error) {
	message, err := s.driver.AppendMessage(ctx, create)
	if err != nil {
		return nil, err
	}

	// The chat's updated_ts changed; drop any cached copy.
	chats, listErr := s.driver.ListChats(ctx, &FindChat{ID: &message.ChatID})
	if listErr == nil && len(chats) == 1 {
		s.chatCache.Delete(chatCacheKey(chats[0].UID))
	}

	return message, nil
}

func (s *Store) ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error) {
	return s.driver.ListMessages(ctx, find)
}

// GetMessage returns the single message matching find, or ErrNotFound.
func (s *Store) GetMessage(ctx context.Context, find *FindMessage) (*Message, error) {
	messages, err := s.driver.ListMessages(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, ErrNotFound
	}
	return messages[0], nil
}

func chatCacheKey(uid string) string {
	return fmt.Sprintf("chat:uid:%s", uid)
}
