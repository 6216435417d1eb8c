package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/biscoitoclicker/bakery/internal/persistence"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event StoredEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, seq, ts, event_type, actor_id, target_id, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, int64(event.Seq), event.Timestamp.UnixMilli(), event.EventType,
		event.ActorID, event.TargetID, string(payloadBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

const eventColumns = `id, seq, ts, event_type, actor_id, target_id, payload`

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...any) ([]StoredEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []StoredEvent
	for rows.Next() {
		var e StoredEvent
		var seq, ts int64
		var payloadStr string
		if err := rows.Scan(&e.ID, &seq, &ts, &e.EventType, &e.ActorID, &e.TargetID, &payloadStr); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Seq = uint64(seq)
		e.Timestamp = time.UnixMilli(ts)
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to decode payload of %s: %w", e.ID, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// newestFirst runs a DESC query and returns the rows oldest first.
func (r *SQLiteEventRepository) newestFirst(ctx context.Context, query string, args ...any) ([]StoredEvent, error) {
	events, err := r.getMany(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

func (r *SQLiteEventRepository) Recent(ctx context.Context, eventType string, limit int) ([]StoredEvent, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	if eventType == "" {
		query := `SELECT ` + eventColumns + ` FROM events ORDER BY ts DESC, rowid DESC LIMIT ?`
		return r.newestFirst(ctx, query, limit)
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE event_type = ? ORDER BY ts DESC, rowid DESC LIMIT ?`
	return r.newestFirst(ctx, query, eventType, limit)
}

func (r *SQLiteEventRepository) Since(ctx context.Context, t time.Time) ([]StoredEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE ts >= ? ORDER BY ts ASC, rowid ASC`
	return r.getMany(ctx, query, t.UnixMilli())
}

func (r *SQLiteEventRepository) GetByActorID(ctx context.Context, actorID string, limit int) ([]StoredEvent, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE actor_id = ? ORDER BY ts DESC, rowid DESC LIMIT ?`
	return r.newestFirst(ctx, query, actorID, limit)
}

// ---------------------------------------------------------
// SQLiteBlobStore
// ---------------------------------------------------------

// SQLiteBlobStore implements persistence.BlobStore over the saves table.
type SQLiteBlobStore struct {
	db *sql.DB
}

func NewSQLiteBlobStore(db *sql.DB) *SQLiteBlobStore {
	return &SQLiteBlobStore{db: db}
}

func (s *SQLiteBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM saves WHERE save_key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load save: %w", err)
	}
	return blob, nil
}

func (s *SQLiteBlobStore) Save(ctx context.Context, key string, blob []byte) error {
	query := `
		INSERT INTO saves (save_key, blob, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(save_key) DO UPDATE SET
			blob=excluded.blob,
			updated_at=excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, blob, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to store save: %w", err)
	}
	return nil
}

func (s *SQLiteBlobStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE save_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}
