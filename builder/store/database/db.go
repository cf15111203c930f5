package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/extra/bunotel"
	"tunehub.io/tunehub-server/common/errorx"
)

type DatabaseDialect string

const (
	DialectPostgres DatabaseDialect = "pg"
)

type DBConfig struct {
	Dialect DatabaseDialect
	DSN     string
}

type Operator struct {
	Core *bun.DB
}

type DB struct {
	Operator
	BunDB *bun.DB
}

func (db *DB) Close() error {
	return db.BunDB.Close()
}

var defaultDB *DB

// InitDB connects the package level db used by the parameterless
// store constructors.
func InitDB(config DBConfig) error {
	db, err := NewDB(context.Background(), config)
	if err != nil {
		return err
	}
	defaultDB = db
	return nil
}

func GetDB() *DB {
	return defaultDB
}

func NewDB(ctx context.Context, config DBConfig) (*DB, error) {
	var bunDB *bun.DB
	switch config.Dialect {
	case DialectPostgres:
		sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(config.DSN)))
		bunDB = bun.NewDB(sqlDB, pgdialect.New(), bun.WithDiscardUnknownColumns())
	default:
		return nil, fmt.Errorf("unknown database dialect %q", config.Dialect)
	}

	if err := bunDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging %s database: %w", config.Dialect, err)
	}

	bunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithEnabled(false),

		// BUNDEBUG=1 logs failed queries
		// BUNDEBUG=2 logs all queries
		bundebug.FromEnv("BUNDEBUG"),
	))
	bunDB.AddQueryHook(bunotel.NewQueryHook(
		bunotel.WithDBName("tunehub_server"),
		bunotel.WithFormattedQueries(true),
	))

	return &DB{
		Operator: Operator{Core: bunDB},
		BunDB:    bunDB,
	}, nil
}

type times struct {
	CreatedAt time.Time `bun:",notnull,skipupdate,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",notnull,default:current_timestamp" json:"updated_at"`
}

func assertAffectedOneRow(result sql.Result, err error) error {
	if err != nil {
		return errorx.HandleDBError(err, nil)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errorx.HandleDBError(err, nil)
	}
	if affected != 1 {
		return fmt.Errorf("affected rows: %d, expected: 1", affected)
	}
	return nil
}
