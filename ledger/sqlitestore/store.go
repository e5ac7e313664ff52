// Package sqlitestore persists the in-memory ledger in an embedded SQLite
// database, so the CLI simulator keeps its accounts between invocations.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/streampay-labs/timelock/ledger"
)

// Config holds configuration for the embedded SQLite DB.
type Config struct {
	Path string // e.g., timelock.db
}

// Store is a durable snapshot of a ledger: every account row plus the
// substrate clock. Save replaces the whole snapshot atomically; Load restores
// it into a fresh ledger.
type Store struct {
	config Config
	db     *sql.DB
}

func New(cfg Config) *Store {
	return &Store{config: cfg}
}

// Open opens the database and ensures the schema exists.
func (s *Store) Open(ctx context.Context) error {
	db, err := openSQLite(s.config)
	if err != nil {
		return err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

func openSQLite(cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// Reasonable pool defaults for sqlite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetConnMaxLifetime(0)
	db.SetMaxIdleConns(1)

	// Enable WAL; if it fails, return error (not optional for our usage)
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL;"); err != nil {
		return nil, err
	}
	// Reasonable defaults; ignore failure as they are optional
	_, _ = db.ExecContext(context.Background(), "PRAGMA synchronous=NORMAL;")
	_, _ = db.ExecContext(context.Background(), "PRAGMA busy_timeout=5000;")
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	stmt := `
CREATE TABLE IF NOT EXISTS accounts (
  address TEXT PRIMARY KEY,
  owner TEXT NOT NULL,
  balance INTEGER NOT NULL,
  data BLOB,
  updated_at DATETIME NOT NULL DEFAULT (STRFTIME('%Y-%m-%d %H:%M:%f','now'))
);

CREATE TABLE IF NOT EXISTS ledger_meta (
  key TEXT PRIMARY KEY,
  value INTEGER NOT NULL
);`
	_, err := db.ExecContext(ctx, stmt)
	return err
}

// Save replaces the stored snapshot with the ledger's current state, all in
// one transaction.
func (s *Store) Save(ctx context.Context, l *ledger.InMemory) error {
	if s.db == nil {
		return errors.New("store is not open")
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO accounts (address, owner, balance, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for addr, acct := range l.Snapshot() {
		// uint64 balances fit the simulator's scale; sqlite stores int64.
		if _, err := stmt.ExecContext(ctx,
			addr.String(), acct.Owner.String(), int64(acct.Balance), acct.Data,
		); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO ledger_meta(key, value) VALUES('now', ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`, int64(l.Now())); err != nil {
		return err
	}
	return tx.Commit()
}

// Load reads the stored snapshot into the given ledger, replacing its
// contents. A database with no snapshot loads an empty ledger at time zero.
func (s *Store) Load(ctx context.Context, l *ledger.InMemory) error {
	if s.db == nil {
		return errors.New("store is not open")
	}
	rows, err := s.db.QueryContext(ctx, `SELECT address, owner, balance, data FROM accounts ORDER BY address`)
	if err != nil {
		return err
	}
	defer rows.Close()

	accounts := make(map[ledger.Address]*ledger.Account)
	for rows.Next() {
		var (
			addrHex  string
			ownerHex string
			balance  int64
			data     []byte
		)
		if err := rows.Scan(&addrHex, &ownerHex, &balance, &data); err != nil {
			return err
		}
		addr, err := ledger.ParseAddress(addrHex)
		if err != nil {
			return fmt.Errorf("stored account address: %w", err)
		}
		owner, err := ledger.ParseAddress(ownerHex)
		if err != nil {
			return fmt.Errorf("stored account owner: %w", err)
		}
		accounts[addr] = &ledger.Account{Owner: owner, Balance: uint64(balance), Data: data}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	l.Restore(accounts)

	var now int64
	err = s.db.QueryRowContext(ctx, `SELECT value FROM ledger_meta WHERE key = 'now'`).Scan(&now)
	if err == sql.ErrNoRows {
		l.SetNow(0)
		return nil
	}
	if err != nil {
		return err
	}
	l.SetNow(uint64(now))
	return nil
}
