// Package itf holds integration test helpers that need a reachable Postgres.
package itf

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/iota-uz/herdbook/migrations"
	"github.com/iota-uz/herdbook/pkg/configuration"
)

func NewPool(dbOpts string) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	config, err := pgxpool.ParseConfig(dbOpts)
	if err != nil {
		panic(err)
	}

	// The owner lock holds one connection for the whole import.
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Minute * 5
	config.MaxConnIdleTime = time.Second * 30

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		panic(fmt.Errorf("failed to create database pool: %w", err))
	}

	return pool
}

// CanDialPostgres reports whether DB_HOST:DB_PORT accepts TCP connections.
func CanDialPostgres() bool {
	c := configuration.Use()
	addr := net.JoinHostPort(c.Database.Host, c.Database.Port)

	dialer := &net.Dialer{Timeout: 250 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// RequirePostgres skips tb when Postgres is unreachable. In CI an
// unreachable database fails the test instead.
func RequirePostgres(tb testing.TB) {
	tb.Helper()
	if CanDialPostgres() {
		return
	}
	if strings.TrimSpace(os.Getenv("CI")) != "" || strings.EqualFold(strings.TrimSpace(os.Getenv("GITHUB_ACTIONS")), "true") {
		tb.Fatalf("postgres is not reachable (DB_HOST/DB_PORT)")
	}
	tb.Skip("postgres is not reachable; skipping integration test")
}

// DatabaseManager handles database lifecycle for tests
type DatabaseManager struct {
	pool   *pgxpool.Pool
	dbName string
	opts   string
}

// NewDatabaseManager creates a fresh migrated database named after the test
// and closes its pool on cleanup.
func NewDatabaseManager(t *testing.T) *DatabaseManager {
	t.Helper()
	RequirePostgres(t)

	dbName := t.Name()
	CreateDB(dbName)
	opts := DbOpts(dbName)
	if err := migrations.Up(context.Background(), opts, ""); err != nil {
		t.Fatalf("migrate %s: %v", dbName, err)
	}

	dm := &DatabaseManager{
		pool:   NewPool(opts),
		dbName: sanitizeDBName(dbName),
		opts:   opts,
	}
	t.Cleanup(dm.Close)
	return dm
}

func (dm *DatabaseManager) Pool() *pgxpool.Pool {
	return dm.pool
}

// Opts returns the connection string of the managed database.
func (dm *DatabaseManager) Opts() string {
	return dm.opts
}

func (dm *DatabaseManager) Close() {
	if dm.pool != nil {
		dm.pool.Close()
		dm.pool = nil
	}
}

const (
	// PostgreSQL database name maximum length is 63 characters
	maxDBNameLength = 63
	// Reserve space for hash suffix when truncating (8 chars + underscore)
	hashSuffixLength = 9
)

var dbNameReplacer = strings.NewReplacer(
	"/", "_", " ", "_", "-", "_", ".", "_",
	"(", "_", ")", "_", "[", "_", "]", "_",
	"#", "_", "=", "_", ",", "_",
)

// sanitizeDBName turns a test name into a valid database name of at most
// 63 characters.
func sanitizeDBName(name string) string {
	sanitized := dbNameReplacer.Replace(strings.ToLower(name))
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		sanitized = "test_db"
	}

	if len(sanitized) <= maxDBNameLength {
		return sanitized
	}
	return truncateWithHash(sanitized, name)
}

// truncateWithHash keeps long names unique by suffixing a hash of the
// original name.
func truncateWithHash(sanitized, original string) string {
	sum := sha256.Sum256([]byte(original))
	hash := fmt.Sprintf("%x", sum)[:8]

	truncated := intelligentTruncate(sanitized, maxDBNameLength-hashSuffixLength)
	return fmt.Sprintf("%s_%s", truncated, hash)
}

// intelligentTruncate tries to keep the most meaningful parts of a test name
func intelligentTruncate(name string, maxLength int) string {
	if len(name) <= maxLength {
		return name
	}

	parts := strings.Split(name, "_")
	if len(parts) > 1 {
		// The first and last parts are usually the test and subtest names.
		first := parts[0]
		last := parts[len(parts)-1]
		if combined := first + "_" + last; len(combined) <= maxLength && first != last {
			return combined
		}

		if len(first) <= maxLength/2 {
			result := first
			remaining := maxLength - len(first) - 1
			for _, part := range parts[1:] {
				if len(part)+1 <= remaining {
					result += "_" + part
					remaining -= len(part) + 1
					continue
				}
				if remaining > 4 {
					result += "_" + part[:remaining-1]
				}
				break
			}
			return result
		}
	}

	return name[:maxLength]
}

// CreateDB drops and recreates the database for name on the configured
// server.
func CreateDB(name string) {
	sanitizedName := sanitizeDBName(name)

	c := configuration.Use()
	adminConnStr := fmt.Sprintf(
		"host=%s port=%s user=%s dbname=postgres password=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password,
	)
	db, err := sql.Open("postgres", adminConnStr)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[WARNING] Error closing CreateDB connection: %v", err)
		}
	}()
	if _, err := db.ExecContext(context.Background(), fmt.Sprintf("DROP DATABASE IF EXISTS %s", sanitizedName)); err != nil {
		panic(err)
	}
	if _, err := db.ExecContext(context.Background(), fmt.Sprintf("CREATE DATABASE %s", sanitizedName)); err != nil {
		panic(err)
	}
}

func DbOpts(name string) string {
	c := configuration.Use()
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.Database.User, sanitizeDBName(name), c.Database.Password,
	)
}
