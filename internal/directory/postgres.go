package directory

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresDirectory reads clients through the get_client_info stored
// function of the loyalty database. The schema is owned elsewhere; this
// side only queries.
type PostgresDirectory struct {
	db *sql.DB
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresDirectory, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresDirectory{db: db}, nil
}

func (d *PostgresDirectory) Lookup(ctx context.Context, code string) (*Client, error) {
	c := Client{Code: code}

	err := d.db.QueryRowContext(ctx,
		`SELECT card_number, first_name, last_name FROM get_client_info($1)`,
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

func (d *PostgresDirectory) Close() error {
	return d.db.Close()
}
