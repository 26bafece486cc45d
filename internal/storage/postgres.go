package storage

import (
	"database/sql"
)

// Postgres keeps every logical table in a single kv table, one row per
// key, value as jsonb.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db}
}

func (p *Postgres) Get(key string) ([]byte, bool, error) {
	row := p.db.QueryRow(`SELECT value FROM kv WHERE key = $1`, key)
	var val []byte
	err := row.Scan(&val)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (p *Postgres) Set(key string, value []byte) error {
	_, err := p.db.Exec(`INSERT INTO kv (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}

func (p *Postgres) Delete(key string) error {
	_, err := p.db.Exec(`DELETE FROM kv WHERE key = $1`, key)
	return err
}
