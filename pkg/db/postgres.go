package db

import (
	"context"
	"errors"
	"fmt"
	"time"
	"wardflow/pkg/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

const (
	defaultMaxConns      = 5
	defaultMigrationsDir = "resources/migrations"
)

// DB - то, что нужно репозиторию: запросы идут через tx из контекста, если она там есть
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Ping(ctx context.Context) error
	Close()
}

type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres открывает пул и накатывает миграции goose
func NewPostgres(ctx context.Context, conf config.Postgres) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(conf.ConnString)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	poolCfg.MaxConns = defaultMaxConns
	if conf.MaxConnections > 0 {
		poolCfg.MaxConns = conf.MaxConnections
	}
	poolCfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if err := Migrate(poolCfg.ConnConfig, conf.MigrationsDir); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{Pool: pool}, nil
}

// Migrate гоняет goose через database/sql поверх pgx stdlib
func Migrate(connConfig *pgx.ConnConfig, dir string) error {
	if dir == "" {
		dir = defaultMigrationsDir
	}

	sqlDB := stdlib.OpenDB(*connConfig)
	defer sqlDB.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(sqlDB, dir); err != nil {
		return fmt.Errorf("migrations from %s: %w", dir, err)
	}
	return nil
}

// IsUniqueViolation проверяет, является ли ошибка нарушением уникальности (SQLSTATE 23505)
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ===== Транзакции через context =====

type txKey struct{}

func (p *Postgres) InjectTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func (p *Postgres) ExtractTx(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return nil
}

// querier - общее у pgx.Tx и пула
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (p *Postgres) conn(ctx context.Context) querier {
	if tx := p.ExtractTx(ctx); tx != nil {
		return tx
	}
	return p.Pool
}

func (p *Postgres) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	return p.conn(ctx).Exec(ctx, query, args...)
}

func (p *Postgres) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return p.conn(ctx).Query(ctx, query, args...)
}

func (p *Postgres) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return p.conn(ctx).QueryRow(ctx, query, args...)
}

// WithinTransaction: коммит/роллбэк в единственном defer с именованным возвратом err.
// Если транзакция уже есть в контексте, присоединяемся к ней, коммит делает внешний вызов.
func (p *Postgres) WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) (err error) {
	if p.ExtractTx(ctx) != nil {
		return tFunc(ctx)
	}

	tx, err := p.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	err = tFunc(p.InjectTx(ctx, tx))
	return
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}
