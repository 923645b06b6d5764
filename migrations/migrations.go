// Package migrations embeds the goose SQL migrations of the herd schema.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"os"

	"github.com/go-faster/errors"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed herd/*.sql
var files embed.FS

// FS returns the embedded migrations, or dir when it is set.
func FS(dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}
	return fs.Sub(files, "herd")
}

// Open opens a database/sql handle for goose through lib/pq.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	return db, nil
}

// NewProvider builds a goose provider over db. An empty dir selects the
// embedded migrations.
func NewProvider(db *sql.DB, dir string) (*goose.Provider, error) {
	fsys, err := FS(dir)
	if err != nil {
		return nil, errors.Wrap(err, "migrations fs")
	}
	p, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, errors.Wrap(err, "goose provider")
	}
	return p, nil
}

// Up applies every pending migration.
func Up(ctx context.Context, dsn, dir string) error {
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := NewProvider(db, dir)
	if err != nil {
		return err
	}
	if _, err := p.Up(ctx); err != nil {
		return errors.Wrap(err, "migrate up")
	}
	return nil
}
