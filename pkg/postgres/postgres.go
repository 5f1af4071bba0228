package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"net"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // goose runs over database/sql
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

type DB struct {
	Host     string `yaml:"host" envconfig:"DB_HOST" default:"localhost"`
	Port     string `yaml:"port" envconfig:"DB_PORT" default:"5432"`
	Username string `yaml:"user" envconfig:"DB_USER" default:"postgres"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD" json:"-"`
	NameDB   string `yaml:"dbname" envconfig:"DB_NAME" default:"library"`
	SSLMode  string `yaml:"sslmode" envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `yaml:"maxConns" envconfig:"DB_MAX_CONNS" default:"10"`
}

func (cfg *DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     cfg.NameDB,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// NewPostgresDB applies the embedded goose migrations and opens a pool.
// migrations may be nil when the schema is managed elsewhere.
func NewPostgresDB(ctx context.Context, cfg *DB, migrations fs.FS) (*pgxpool.Pool, error) {
	if migrations != nil {
		if err := migrate(cfg.DSN(), migrations); err != nil {
			return nil, errors.Wrap(err, "migrate")
		}
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "pgxpool.ParseConfig")
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, "pgxpool.NewWithConfig")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", net.JoinHostPort(cfg.Host, cfg.Port), err)
	}
	return pool, nil
}

func migrate(dsn string, migrations fs.FS) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
