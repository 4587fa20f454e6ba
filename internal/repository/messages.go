package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

const messageColumns = `id, seq, event_id, author_id, author_role, content, pinned, parent_id,
	deleted, created_at, updated_at`

// MessageRepository handles persistence for forum messages and reactions.
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository constructs a MessageRepository.
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func scanMessage(row rowScanner) (*model.Message, error) {
	var m model.Message
	err := row.Scan(
		&m.ID, &m.Seq, &m.EventID, &m.AuthorID, &m.AuthorRole, &m.Content, &m.Pinned, &m.ParentID,
		&m.Deleted, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts msg and fills in its sequence number.
func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO messages (id, event_id, author_id, author_role, content, pinned, parent_id, deleted, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING seq`,
		msg.ID, msg.EventID, msg.AuthorID, msg.AuthorRole, msg.Content, msg.Pinned, msg.ParentID,
		msg.Deleted, msg.CreatedAt, msg.UpdatedAt,
	).Scan(&msg.Seq)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// GetByID returns one message with its reactions.
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*model.Message, error) {
	msg, err := scanMessage(r.db.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	msgs := []model.Message{*msg}
	if err := loadReactions(ctx, r.db, msgs); err != nil {
		return nil, err
	}
	return &msgs[0], nil
}

// Mutate locks one message row and applies fn. Only pinned, content,
// deleted and updated_at are written back.
func (r *MessageRepository) Mutate(ctx context.Context, id string, fn MessageFunc) (_ *model.Message, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx, &err)

	msg, err := lockMessage(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err = fn(msg); err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx,
		`UPDATE messages SET content = $2, pinned = $3, deleted = $4, updated_at = $5 WHERE id = $1`,
		msg.ID, msg.Content, msg.Pinned, msg.Deleted, msg.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return msg, nil
}

// ToggleReaction adds or removes userID's emoji on the message after guard
// approves the locked row. It reports whether the reaction is now present.
func (r *MessageRepository) ToggleReaction(ctx context.Context, id, emoji, userID string, guard MessageFunc) (_ *model.Message, _ bool, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx, &err)

	msg, err := lockMessage(ctx, tx, id)
	if err != nil {
		return nil, false, err
	}
	if err = guard(msg); err != nil {
		return nil, false, err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM message_reactions WHERE message_id = $1 AND emoji = $2 AND user_id = $3`,
		id, emoji, userID)
	if err != nil {
		return nil, false, fmt.Errorf("remove reaction: %w", err)
	}
	added := tag.RowsAffected() == 0
	if added {
		if _, err = tx.Exec(ctx,
			`INSERT INTO message_reactions (message_id, emoji, user_id) VALUES ($1, $2, $3)`,
			id, emoji, userID); err != nil {
			return nil, false, fmt.Errorf("add reaction: %w", err)
		}
	}

	msgs := []model.Message{*msg}
	if err = loadReactions(ctx, tx, msgs); err != nil {
		return nil, false, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("commit transaction: %w", err)
	}
	return &msgs[0], added, nil
}

// List returns one page of an event's forum, pinned first and then in
// sequence order, plus the total message count.
func (r *MessageRepository) List(ctx context.Context, eventID string, page, limit int) ([]model.Message, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE event_id = $1`, eventID).Scan(&total); err != nil {
		if notFound(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+messageColumns+` FROM messages
		 WHERE event_id = $1
		 ORDER BY pinned DESC, seq ASC
		 LIMIT $2 OFFSET $3`,
		eventID, limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := loadReactions(ctx, r.db, msgs); err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

func lockMessage(ctx context.Context, tx pgx.Tx, id string) (*model.Message, error) {
	msg, err := scanMessage(tx.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock message row: %w", err)
	}
	return msg, nil
}

// loadReactions fills the Reactions map of every message in msgs.
func loadReactions(ctx context.Context, q querier, msgs []model.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	ids := make([]string, len(msgs))
	index := make(map[string]*model.Message, len(msgs))
	for i := range msgs {
		ids[i] = msgs[i].ID
		msgs[i].Reactions = map[string][]string{}
		index[msgs[i].ID] = &msgs[i]
	}

	rows, err := q.Query(ctx,
		`SELECT message_id, emoji, user_id FROM message_reactions
		 WHERE message_id = ANY($1::uuid[])
		 ORDER BY reacted_at, user_id`, ids)
	if err != nil {
		return fmt.Errorf("load reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msgID, emoji, userID string
		if err := rows.Scan(&msgID, &emoji, &userID); err != nil {
			return fmt.Errorf("scan reaction: %w", err)
		}
		if m, ok := index[msgID]; ok {
			m.Reactions[emoji] = append(m.Reactions[emoji], userID)
		}
	}
	return rows.Err()
}
