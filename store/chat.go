package store

import "github.com/pkg/errors"

// ErrNotFound is returned when a requested chat or message does not exist.
var ErrNotFound = errors.New("not found")

// Quality selects the prompt tier used when a chat is created.
type Quality string

const (
	QualityHigh Quality = "high"
	QualityLow  Quality = "low"
)

type Chat struct {
	ID        int32
	UID       string
	Title     string
	Prompt    string
	Model     string
	Quality   Quality
	Shadcn    bool
	CreatedTs int64
	UpdatedTs int64
}

type FindChat struct {
	ID  *int32
	UID *string
}

type DeleteChat struct {
	ID int32
}

// MessageRole is the conversational role of a message.
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is one turn of a chat. Position is a dense 0-based index within
// the chat; the pair (ChatID, Position) is unique.
type Message struct {
	ID        int32
	UID       string
	ChatID    int32
	Role      MessageRole
	Content   string
	Position  int32
	CreatedTs int64
}

type FindMessage struct {
	ID     *int32
	UID    *string
	ChatID *int32
	// MaxPosition limits results to messages at or below this position.
	MaxPosition *int32
}
