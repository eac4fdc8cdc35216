package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Chat model related methods.
	// CreateChat inserts the chat together with its seed messages in one
	// transaction.
	CreateChat(ctx context.Context, create *Chat, seeds []*Message) (*Chat, error)
	ListChats(ctx context.Context, find *FindChat) ([]*Chat, error)
	DeleteChat(ctx context.Context, delete *DeleteChat) error

	// Message model related methods.
	// AppendMessage assigns the next free position within the chat
	// atomically and bumps the chat's updated_ts.
	AppendMessage(ctx context.Context, create *Message) (*Message, error)
	ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error)
}
