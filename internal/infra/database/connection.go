package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Driver do Postgres (pgx)
	_ "github.com/lib/pq"              // Driver do Postgres (lib/pq)
)

var supportedDrivers = map[string]bool{"pgx": true, "postgres": true}

// NewDBConnection abre a conexão com o driver escolhido e testa o Ping
func NewDBConnection(driver, connString string) (*sql.DB, error) {
	if !supportedDrivers[driver] {
		return nil, fmt.Errorf("driver de banco não suportado: %q", driver)
	}

	db, err := sql.Open(driver, connString)
	if err != nil {
		return nil, err
	}

	// Pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
