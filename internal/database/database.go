package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite"

	"github.com/omega-realm/mangos-admin/internal/env"
	"github.com/omega-realm/mangos-admin/internal/log"
)

// DB is one pooled query handle bound to a single schema.
type DB struct {
	conn    *sql.DB
	dialect Dialect
	name    string
}

// Config holds the settings shared by the three schema pools. Only the
// database names differ between realmd, characters and world.
type Config struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	SSLMode         string
	RealmdDB        string
	CharactersDB    string
	WorldDB         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LoadConfigFromEnv loads database configuration from environment variables
func LoadConfigFromEnv() *Config {
	return &Config{
		Driver:          env.String("DB_DRIVER", DriverMySQL),
		Host:            env.String("DB_HOST", "mysql-service"),
		Port:            env.String("DB_PORT", "3306"),
		User:            env.String("DB_USER", "mangos"),
		Password:        env.String("DB_PASSWORD", "mangos"),
		SSLMode:         env.String("DB_SSLMODE", "disable"),
		RealmdDB:        env.String("REALMD_DB", "classicrealmd"),
		CharactersDB:    env.String("CHARACTERS_DB", "classiccharacters"),
		WorldDB:         env.String("WORLD_DB", "classicmangos"),
		MaxOpenConns:    env.Int("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    env.Int("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: env.Duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		ConnMaxIdleTime: env.Duration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
	}
}

// DSN renders the driver-specific connection string for one schema.
func (c *Config) DSN(dbName string) (string, error) {
	switch c.Driver {
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, c.Port)
		mc.DBName = dbName
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	case DriverPostgres:
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, dbName, c.SSLMode,
		), nil
	case DriverSQLite:
		return dbName, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// NewConnection opens and pings a pool for the named schema.
func NewConnection(ctx context.Context, config *Config, dbName string) (*DB, error) {
	dialect, err := DialectFor(config.Driver)
	if err != nil {
		return nil, err
	}
	dsn, err := config.DSN(dbName)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbName, err)
	}

	conn.SetMaxOpenConns(config.MaxOpenConns)
	conn.SetMaxIdleConns(config.MaxIdleConns)
	conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", dbName, err)
	}

	log.Info("[Database] Connected to %s (%s)", dbName, config.Driver)
	log.Debug("[Database] Pool config for %s: MaxOpen=%d, MaxIdle=%d", dbName, config.MaxOpenConns, config.MaxIdleConns)

	return &DB{conn: conn, dialect: dialect, name: dbName}, nil
}

func (db *DB) Name() string {
	return db.name
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, db.dialect.Rebind(query), args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, db.dialect.Rebind(query), args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, db.dialect.Rebind(query), args...)
}

// InsertID executes an INSERT and returns the generated id column.
func (db *DB) InsertID(ctx context.Context, query string, args ...any) (int64, error) {
	if !db.dialect.LastInsertID {
		var id int64
		err := db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Count runs a single-value COUNT statement.
func (db *DB) Count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (db *DB) PingContext(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// Pools are the three independent handles the API works against.
type Pools struct {
	Realmd     *DB
	Characters *DB
	World      *DB
}

// OpenPools connects to all three schemas, closing any already opened pool
// when a later one fails.
func OpenPools(ctx context.Context, config *Config) (*Pools, error) {
	realmd, err := NewConnection(ctx, config, config.RealmdDB)
	if err != nil {
		return nil, err
	}
	characters, err := NewConnection(ctx, config, config.CharactersDB)
	if err != nil {
		_ = realmd.Close()
		return nil, err
	}
	world, err := NewConnection(ctx, config, config.WorldDB)
	if err != nil {
		_ = realmd.Close()
		_ = characters.Close()
		return nil, err
	}
	return &Pools{Realmd: realmd, Characters: characters, World: world}, nil
}

func (p *Pools) Close() error {
	return errors.Join(p.Realmd.Close(), p.Characters.Close(), p.World.Close())
}
