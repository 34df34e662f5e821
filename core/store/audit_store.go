package store

import (
	"context"
	"database/sql"
	"time"
)

type AuditStore interface {
	Log(ctx context.Context, actor, action, details string) error
	Recent(ctx context.Context, limit int) ([]AuditEntry, error)
}

type AuditEntry struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

type auditStore struct {
	db *sql.DB
}

func NewAuditStore(db *sql.DB) AuditStore {
	return &auditStore{db: db}
}

func (s *auditStore) Log(ctx context.Context, actor, action, details string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log(actor, action, details, created_at)
		VALUES(?,?,?,?)`,
		actor, action, details, time.Now().UTC())
	return err
}

func (s *auditStore) Recent(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, action, details, created_at
		FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
