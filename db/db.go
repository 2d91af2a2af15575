package db

import (
	"database/sql"
	"fmt"
	"math/rand"
	"strings"

	_ "github.com/mattn/go-sqlite3" // sqlite
	migrate "github.com/rubenv/sql-migrate"
)

const defaultDBFile = "db.sqlite"

type DB struct {
	*sql.DB
	file string
}

// OpenDB opens sqlite database file.
func OpenDB(file string) *DB {
	if file == "" {
		file = defaultDBFile
	}
	logger.Infow("opening sqlite database", "file", file)

	stdDB, err := sql.Open("sqlite3", fmt.Sprintf("file:%v?_journal_mode=WAL", file))
	if err != nil {
		logger.Panic(err)
	}

	return &DB{stdDB, file}
}

// OpenTestDB opens an in-memory sqlite database for use in tests.
func OpenTestDB() *DB {
	stdDB, err := sql.Open("sqlite3", "file:x?mode=memory&_journal_mode=WAL")
	if err != nil {
		logger.Panic(err)
	}

	return &DB{DB: stdDB}
}

// MigrateUp applies a migration written in sql-migrate format
// (`-- +migrate Up` / `-- +migrate Down` sections).
func (db *DB) MigrateUp(s string) error {
	logger.Infow("migrating up", "db", db.file)
	n, err := migrate.Exec(db.DB, "sqlite3", memorySource(s), migrate.Up)
	if err != nil {
		return err
	}
	logger.Infow("migrations applied", "count", n)
	return nil
}

func (db *DB) MigrateDown(s string) error {
	logger.Infow("migrating down", "db", db.file)
	_, err := migrate.Exec(db.DB, "sqlite3", memorySource(s), migrate.Down)
	return err
}

func memorySource(s string) *migrate.MemoryMigrationSource {
	m, err := migrate.ParseMigration("initial", strings.NewReader(s))
	if err != nil {
		logger.Panic(err)
	}
	return &migrate.MemoryMigrationSource{Migrations: []*migrate.Migration{m}}
}

// RandomString generates a random string of length `n`.
func RandomString(n int) string {
	var letter = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

	b := make([]rune, n)
	for i := range b {
		b[i] = letter[rand.Intn(len(letter))]
	}
	return string(b)
}
