package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store defines durable persistence for the session. The token pair and the
// principal snapshot are written and removed as one unit so a reader can
// never observe a new access token next to an old refresh token.
type Store interface {
	// Save persists the pair and principal atomically, replacing any
	// previous session.
	Save(pair TokenPair, principal *Principal) error
	// Pair returns the stored token pair. Returns ErrNoSession if nothing
	// is stored or either token is missing.
	Pair() (TokenPair, error)
	// Principal returns the cached principal, or nil if none is stored.
	Principal() (*Principal, error)
	// Clear removes the token pair and the cached principal.
	Clear() error
	Close() error
}

// storedSession is the encrypted-at-rest representation.
type storedSession struct {
	Tokens    TokenPair  `json:"tokens"`
	Principal *Principal `json:"principal,omitempty"`
}

// SQLiteStore implements Store using a single-slot SQLite table with the
// session blob encrypted via AES-GCM.
type SQLiteStore struct {
	db            *sql.DB
	encryptionKey []byte
	mu            sync.RWMutex
}

// NewSQLiteStore opens (or creates) the store at dbPath. The encryptionKey
// encrypts the session blob at rest.
func NewSQLiteStore(dbPath string, encryptionKey []byte) (*SQLiteStore, error) {
	// WAL mode and busy timeout for concurrent readers
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{
		db:            db,
		encryptionKey: encryptionKey,
	}

	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}

	// The file exists after init; keep the encrypted blob owner-only.
	if err := os.Chmod(dbPath, 0600); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set database permissions: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		encrypted_session TEXT NOT NULL,
		last_updated DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create session table: %w", err)
	}
	return nil
}

// Save stores the token pair and principal as one encrypted row.
func (s *SQLiteStore) Save(pair TokenPair, principal *Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := json.Marshal(storedSession{Tokens: pair, Principal: principal})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	encrypted, err := encrypt(blob, s.encryptionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO session (id, encrypted_session, last_updated)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			encrypted_session = excluded.encrypted_session,
			last_updated = excluded.last_updated
	`, encrypted, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *SQLiteStore) load() (*storedSession, error) {
	var encrypted string
	err := s.db.QueryRow("SELECT encrypted_session FROM session WHERE id = 1").Scan(&encrypted)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	blob, err := decrypt(encrypted, s.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt session: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(blob, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &stored, nil
}

// Pair returns the stored token pair, or ErrNoSession when absent or
// incomplete.
func (s *SQLiteStore) Pair() (TokenPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, err := s.load()
	if err != nil {
		return TokenPair{}, err
	}
	if stored == nil || !stored.Tokens.Valid() {
		return TokenPair{}, ErrNoSession
	}
	return stored.Tokens, nil
}

// Principal returns the cached principal snapshot, nil when absent.
func (s *SQLiteStore) Principal() (*Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, err := s.load()
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}
	return stored.Principal, nil
}

// Clear removes the session row.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM session WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
