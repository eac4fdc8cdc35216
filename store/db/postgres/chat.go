package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/landingchat/landingchat/store"
)

// "position" is a reserved word in PostgreSQL and must stay quoted.

func (d *DB) CreateChat(ctx context.Context, create *store.Chat, seeds []*store.Message) (*store.Chat, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	fields := []string{"uid", "title", "prompt", "model", "quality", "shadcn", "created_ts", "updated_ts"}
	args := []any{create.UID, create.Title, create.Prompt, create.Model, string(create.Quality), create.Shadcn, create.CreatedTs, create.UpdatedTs}

	stmt := `INSERT INTO chat (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := tx.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	for _, seed := range seeds {
		seed.ChatID = create.ID
		stmt := `INSERT INTO message (uid, chat_id, role, content, "position", created_ts)
			VALUES (` + placeholders(6) + `)
			RETURNING id`
		if err := tx.QueryRowContext(ctx, stmt, seed.UID, seed.ChatID, string(seed.Role), seed.Content, seed.Position, seed.CreatedTs).Scan(&seed.ID); err != nil {
			return nil, fmt.Errorf("failed to create seed message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit chat creation: %w", err)
	}
	return create, nil
}

func (d *DB) ListChats(ctx context.Context, find *store.FindChat) ([]*store.Chat, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}

	query := `SELECT id, uid, title, prompt, model, quality, shadcn, created_ts, updated_ts FROM chat WHERE ` + strings.Join(where, " AND ") + ` ORDER BY updated_ts DESC, id DESC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Chat, 0)
	for rows.Next() {
		chat := &store.Chat{}
		if err := rows.Scan(&chat.ID, &chat.UID, &chat.Title, &chat.Prompt, &chat.Model, &chat.Quality, &chat.Shadcn, &chat.CreatedTs, &chat.UpdatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		list = append(list, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chats: %w", err)
	}
	return list, nil
}

func (d *DB) DeleteChat(ctx context.Context, delete *store.DeleteChat) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM message WHERE chat_id = `+placeholder(1), delete.ID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	result, err := d.db.ExecContext(ctx, `DELETE FROM chat WHERE id = `+placeholder(1), delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (d *DB) AppendMessage(ctx context.Context, create *store.Message) (*store.Message, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The next position is computed inside the insert so two concurrent
	// appends cannot claim the same slot; UNIQUE(chat_id, position) backs
	// this up.
	stmt := `INSERT INTO message (uid, chat_id, role, content, "position", created_ts)
		SELECT ` + placeholders(4) + `, COALESCE(MAX("position"), -1) + 1, ` + placeholder(5) + `
		FROM message WHERE chat_id = ` + placeholder(6) + `
		RETURNING id, "position"`
	args := []any{create.UID, create.ChatID, string(create.Role), create.Content, create.CreatedTs, create.ChatID}
	if err := tx.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.Position); err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE chat SET updated_ts = `+placeholder(1)+` WHERE id = `+placeholder(2), create.CreatedTs, create.ChatID); err != nil {
		return nil, fmt.Errorf("failed to touch chat: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit message append: %w", err)
	}
	return create, nil
}

func (d *DB) ListMessages(ctx context.Context, find *store.FindMessage) ([]*store.Message, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.ChatID != nil {
		where, args = append(where, "chat_id = "+placeholder(len(args)+1)), append(args, *find.ChatID)
	}
	if find.MaxPosition != nil {
		where, args = append(where, `"position" <= `+placeholder(len(args)+1)), append(args, *find.MaxPosition)
	}

	query := `SELECT id, uid, chat_id, role, content, "position", created_ts FROM message WHERE ` + strings.Join(where, " AND ") + ` ORDER BY "position" ASC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Message, 0)
	for rows.Next() {
		message := &store.Message{}
		if err := rows.Scan(&message.ID, &message.UID, &message.ChatID, &message.Role, &message.Content, &message.Position, &message.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		list = append(list, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return list, nil
}
