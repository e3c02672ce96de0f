package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/worldofchami/shopassist/pkg/store"
	"gorm.io/gorm"
)

// Message is one turn of a conversation.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"` // "user" or "assistant"
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

// Customer is what the assistant has learned about whoever is on the other
// end of a conversation.
type Customer struct {
	ConversationID  string `json:"conversation_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ShippingAddress string `json:"shipping_address"`
}

// customerFields are the columns the assistant may update.
var customerFields = map[string]bool{
	"name":             true,
	"email":            true,
	"shipping_address": true,
}

// MessageHistory keeps the last maxSize messages per conversation, plus a
// customer profile, in SQLite using GORM with raw SQL.
type MessageHistory struct {
	db      *gorm.DB
	mu      sync.RWMutex
	maxSize int
}

func NewMessageHistory(dbPath string, maxSize int) (*MessageHistory, error) {
	db, err := store.OpenSQLite(dbPath)
	if err != nil {
		return nil, err
	}

	schemaSQL := `
	CREATE TABLE IF NOT EXISTS customers (
		conversation_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		shipping_address TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id TEXT NOT NULL,
		role TEXT NOT NULL CHECK(role IN ('user', 'assistant')),
		content TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, id);
	`

	if err := db.Exec(schemaSQL).Error; err != nil {
		_ = store.CloseDB(db)
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &MessageHistory{
		db:      db,
		maxSize: maxSize,
	}, nil
}

func (mh *MessageHistory) Close() error {
	return store.CloseDB(mh.db)
}

func (mh *MessageHistory) AddMessage(ctx context.Context, conversationID string, msg Message) error {
	mh.mu.Lock()
	defer mh.mu.Unlock()

	db := mh.db.WithContext(ctx)

	insertMessage := `
		INSERT INTO messages (conversation_id, role, content, created_at)
		VALUES (?, ?, ?, ?)`

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	if err := db.Exec(insertMessage, conversationID, msg.Role, msg.Content, ts.UTC()).Error; err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	// Keep only the newest maxSize messages for this conversation.
	trimMessages := `
		DELETE FROM messages WHERE conversation_id = ? AND id NOT IN (
			SELECT id FROM messages
			WHERE conversation_id = ?
			ORDER BY id DESC
			LIMIT ?
		)`

	if err := db.Exec(trimMessages, conversationID, conversationID, mh.maxSize).Error; err != nil {
		return fmt.Errorf("failed to trim messages: %w", err)
	}

	return nil
}

func (mh *MessageHistory) GetHistory(ctx context.Context, conversationID string) ([]Message, error) {
	mh.mu.RLock()
	defer mh.mu.RUnlock()

	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY id ASC`

	rows, err := mh.db.WithContext(ctx).Raw(query, conversationID).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// GetHistoryAsContext renders the stored turns as a block appended to the
// next prompt.
func (mh *MessageHistory) GetHistoryAsContext(ctx context.Context, conversationID string) (string, error) {
	msgs, err := mh.GetHistory(ctx, conversationID)
	if err != nil {
		return "", err
	}

	if len(msgs) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("\n\n=== Recent Conversation History ===\n")
	for _, msg := range msgs {
		role := "User"
		if msg.Role == "assistant" {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, msg.Content)
	}
	b.WriteString("=== End of History ===\n")
	return b.String(), nil
}

// GetOrCreateCustomer returns the profile for a conversation, creating an
// empty one the first time.
func (mh *MessageHistory) GetOrCreateCustomer(ctx context.Context, conversationID string) (*Customer, error) {
	mh.mu.Lock()
	defer mh.mu.Unlock()

	db := mh.db.WithContext(ctx)

	var c Customer
	query := `SELECT conversation_id, name, email, shipping_address FROM customers WHERE conversation_id = ?`
	err := db.Raw(query, conversationID).Row().Scan(&c.ConversationID, &c.Name, &c.Email, &c.ShippingAddress)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	insertQuery := `INSERT INTO customers (conversation_id) VALUES (?)`
	if err := db.Exec(insertQuery, conversationID).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &Customer{ConversationID: conversationID}, nil
}

// UpdateCustomerField sets one profile field. Only names in customerFields
// are accepted.
func (mh *MessageHistory) UpdateCustomerField(ctx context.Context, conversationID, field, value string) error {
	mh.mu.Lock()
	defer mh.mu.Unlock()

	if !customerFields[field] {
		return fmt.Errorf("invalid field name: %s", field)
	}

	query := fmt.Sprintf(`
		UPDATE customers
		SET %s = ?, updated_at = datetime('now')
		WHERE conversation_id = ?`, field)

	res := mh.db.WithContext(ctx).Exec(query, value, conversationID)
	if res.Error != nil {
		return fmt.Errorf("failed to update customer field %s: %w", field, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no customer for conversation %s", conversationID)
	}
	return nil
}
