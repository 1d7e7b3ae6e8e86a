package repository

import (
	"context"
	"database/sql"
	"fmt"

	"omegashop/internal/domain"
	"omegashop/internal/errors"
)

type MySQLChatRepository struct {
	db *sql.DB
}

func NewMySQLChatRepository(db *sql.DB) *MySQLChatRepository {
	return &MySQLChatRepository{db: db}
}

func (r *MySQLChatRepository) InsertConversation(ctx context.Context, conv domain.Conversation) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO conversations (user1_id, user2_id) VALUES (?, ?)`,
		conv.User1ID, conv.User2ID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting conversation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(id), nil
}

func (r *MySQLChatRepository) FindConversation(ctx context.Context, id int) (*domain.Conversation, error) {
	query := `SELECT id, user1_id, user2_id, created_at FROM conversations WHERE id = ?`

	var conv domain.Conversation
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&conv.ID, &conv.User1ID, &conv.User2ID, &conv.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("conversation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying conversation: %w", err)
	}

	return &conv, nil
}

func (r *MySQLChatRepository) InsertMessage(ctx context.Context, msg domain.Message) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, sender_id, body, image) VALUES (?, ?, ?, ?)`,
		msg.ConversationID, msg.SenderID, msg.Body, msg.Image,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(id), nil
}

func (r *MySQLChatRepository) ListMessages(ctx context.Context, conversationID int) ([]domain.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, body, image, is_read, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		err := rows.Scan(
			&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Body, &msg.Image,
			&msg.IsRead, &msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}

	return messages, nil
}

func (r *MySQLChatRepository) MarkRead(ctx context.Context, conversationID, readerID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE messages SET is_read = 1 WHERE conversation_id = ? AND sender_id <> ?`,
		conversationID, readerID,
	)
	if err != nil {
		return fmt.Errorf("marking messages read: %w", err)
	}
	return nil
}
