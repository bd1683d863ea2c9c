package directory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Gor-Tutyan/qr-scaner/internal/logger"
)

const clientsSchema = `CREATE TABLE IF NOT EXISTS clients (
	client_code TEXT PRIMARY KEY,
	card_number TEXT,
	first_name  TEXT,
	last_name   TEXT
)`

// demoClients are the stock test records seeded into an empty directory.
var demoClients = [][4]string{
	{"12345", "4374690101156220", "Иван", "Иванов"},
	{"54321", "5555 6666 7777 8888", "Мария", "Петрова"},
	{"777", "4000 1234 5678 9010", "Алексей", "Сидоров"},
	{"99999", "3714 496353 98431", "Ольга", "Кузнецова"},
	{"111", "6011 0009 9013 9424", "Дмитрий", "Волков"},
	{"888", "3056 9300 0904 0000", "Екатерина", "Смирнова"},
	{"2222", "5105 1051 0510 5100", "Сергей", "Козлов"},
	{"55555", "2223 0000 4848 4848", "Анастасия", "Лебедева"},
}

type SQLiteDirectory struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the client directory at path.
// When seed is true and the table is empty, the demo clients are inserted.
func OpenSQLite(ctx context.Context, path string, seed bool) (*SQLiteDirectory, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("directory: create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, clientsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("directory: ensure schema: %w", err)
	}

	if seed {
		if err := seedDemo(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &SQLiteDirectory{db: db}, nil
}

func seedDemo(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count); err != nil {
		return fmt.Errorf("directory: count clients: %w", err)
	}
	if count > 0 {
		return nil
	}

	stmt, err := db.PrepareContext(ctx,
		`INSERT OR REPLACE INTO clients (client_code, card_number, first_name, last_name)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range demoClients {
		if _, err := stmt.ExecContext(ctx, c[0], c[1], c[2], c[3]); err != nil {
			return fmt.Errorf("directory: seed client %s: %w", c[0], err)
		}
	}

	logger.Info("seeded demo clients", map[string]any{
		"count": len(demoClients),
	})
	return nil
}

func (d *SQLiteDirectory) Lookup(ctx context.Context, code string) (*Client, error) {
	c := Client{Code: code}

	err := d.db.QueryRowContext(ctx,
		`SELECT card_number, first_name, last_name FROM clients WHERE client_code = ?`,
		code,
	).Scan(&c.CardNumber, &c.FirstName, &c.LastName)

	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("directory: lookup %q: %w", code, err)
	}

	return &c, nil
}

func (d *SQLiteDirectory) Close() error {
	return d.db.Close()
}
