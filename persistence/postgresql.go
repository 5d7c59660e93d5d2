// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/wfunc/matchserver/models"
)

// PostgreSQL is the raw database/sql match archive, for deployments that do
// not want GORM in the path.
type PostgreSQL struct {
	db *sql.DB
}

func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS match_records (
            id SERIAL PRIMARY KEY,
            match_id VARCHAR(64) UNIQUE NOT NULL,
            x_name VARCHAR(255) NOT NULL,
            o_name VARCHAR(255) NOT NULL,
            winner SMALLINT NOT NULL,
            moves INT NOT NULL DEFAULT 0,
            duration INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_match_records_x_name ON match_records(x_name);
        CREATE INDEX IF NOT EXISTS idx_match_records_o_name ON match_records(o_name);
        CREATE INDEX IF NOT EXISTS idx_match_records_created_at ON match_records(created_at);
    `)

	return err
}

func (p *PostgreSQL) SaveMatchRecord(record *models.MatchRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO match_records (match_id, x_name, o_name, winner, moves, duration)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (match_id) DO NOTHING
    `

	_, err := p.db.ExecContext(ctx, query,
		record.MatchID, record.XName, record.OName,
		record.Winner, record.Moves, record.Duration)
	return err
}

func (p *PostgreSQL) GetPlayerRecord(name string) (*models.PlayerRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record := models.PlayerRecord{Name: name}
	query := `
        SELECT
            COUNT(*),
            COALESCE(SUM(CASE WHEN (x_name = $1 AND winner = 1)
                       OR (o_name = $1 AND winner = 2) THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN (x_name = $1 AND winner = 2)
                       OR (o_name = $1 AND winner = 1) THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN winner = 0 THEN 1 ELSE 0 END), 0)
        FROM match_records
        WHERE x_name = $1 OR o_name = $1
    `
	err := p.db.QueryRowContext(ctx, query, name).Scan(
		&record.Games, &record.Wins, &record.Losses, &record.Draws)
	if err != nil {
		return nil, err
	}

	if record.Games == 0 {
		return nil, ErrRecordNotFound
	}
	return &record, nil
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
