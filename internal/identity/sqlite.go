package identity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/its-pratyushpandey/Intellia/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed profile store.
func NewSQLite(dbPath string) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		assistant_name TEXT NOT NULL DEFAULT 'Assistant',
		assistant_image TEXT,
		voice_settings TEXT,
		nlp_settings TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		command TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_user ON history(user_id, id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT user_id, name, assistant_name, assistant_image,
		       voice_settings, nlp_settings, created_at
		FROM users WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var user models.User
	var image, voiceJSON, nlpJSON sql.NullString
	var createdAt int64

	err := row.Scan(&user.ID, &user.Name, &user.AssistantName, &image,
		&voiceJSON, &nlpJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	user.AssistantImage = image.String
	user.CreatedAt = time.Unix(createdAt, 0)
	user.NLPSettings = models.DefaultNLPSettings()
	if voiceJSON.Valid && voiceJSON.String != "" {
		if err := json.Unmarshal([]byte(voiceJSON.String), &user.VoiceSettings); err != nil {
			return nil, fmt.Errorf("decode voice settings: %w", err)
		}
	}
	if nlpJSON.Valid && nlpJSON.String != "" {
		if err := json.Unmarshal([]byte(nlpJSON.String), &user.NLPSettings); err != nil {
			return nil, fmt.Errorf("decode nlp settings: %w", err)
		}
	}
	return &user, nil
}

// UpsertUser creates or replaces a user record.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *models.User) error {
	voiceJSON, err := json.Marshal(user.VoiceSettings)
	if err != nil {
		return fmt.Errorf("encode voice settings: %w", err)
	}
	nlpJSON, err := json.Marshal(user.NLPSettings)
	if err != nil {
		return fmt.Errorf("encode nlp settings: %w", err)
	}
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO users (user_id, name, assistant_name, assistant_image, voice_settings, nlp_settings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			assistant_name = excluded.assistant_name,
			assistant_image = excluded.assistant_image,
			voice_settings = excluded.voice_settings,
			nlp_settings = excluded.nlp_settings`

	_, err = s.db.ExecContext(ctx, query, user.ID, user.Name, user.AssistantName,
		user.AssistantImage, string(voiceJSON), string(nlpJSON), createdAt.Unix())
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// UpdateAssistant updates the assistant name and image for a user.
func (s *SQLiteStore) UpdateAssistant(ctx context.Context, userID, assistantName, assistantImage string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET assistant_name = ?, assistant_image = ? WHERE user_id = ?`,
		assistantName, assistantImage, userID)
	if err != nil {
		return fmt.Errorf("update assistant: %w", err)
	}
	return requireRow(res)
}

// UpdateSettings updates voice and/or NLP settings. Nil leaves a block as is.
func (s *SQLiteStore) UpdateSettings(ctx context.Context, userID string, voice *models.VoiceSettings, nlp *models.NLPSettings) error {
	if voice == nil && nlp == nil {
		return nil
	}
	if voice != nil {
		raw, err := json.Marshal(voice)
		if err != nil {
			return fmt.Errorf("encode voice settings: %w", err)
		}
		res, err := s.db.ExecContext(ctx,
			`UPDATE users SET voice_settings = ? WHERE user_id = ?`, string(raw), userID)
		if err != nil {
			return fmt.Errorf("update voice settings: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
	}
	if nlp != nil {
		raw, err := json.Marshal(nlp)
		if err != nil {
			return fmt.Errorf("encode nlp settings: %w", err)
		}
		res, err := s.db.ExecContext(ctx,
			`UPDATE users SET nlp_settings = ? WHERE user_id = ?`, string(raw), userID)
		if err != nil {
			return fmt.Errorf("update nlp settings: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
	}
	return nil
}

// AppendHistory appends one accepted command to the history log.
func (s *SQLiteStore) AppendHistory(ctx context.Context, userID, command string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (user_id, command, created_at) VALUES (?, ?, ?)`,
		userID, command, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// History returns the most recent entries, newest first.
func (s *SQLiteStore) History(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT command, created_at FROM history WHERE user_id = ? ORDER BY id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		var createdAt int64
		if err := rows.Scan(&e.Command, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.Timestamp = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
