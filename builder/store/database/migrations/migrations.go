package migrations

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

// models are redefined in each migration file instead of reusing the
// database package, so that later model changes do not rewrite history.
type times struct {
	CreatedAt time.Time `bun:",notnull,skipupdate,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",notnull,default:current_timestamp" json:"updated_at"`
}

func createTables(ctx context.Context, db *bun.DB, tables ...any) error {
	for _, table := range tables {
		_, err := db.NewCreateTable().Model(table).IfNotExists().Exec(ctx)
		if err != nil {
			return fmt.Errorf("create table %T: %w", table, err)
		}
	}
	return nil
}

func dropTables(ctx context.Context, db *bun.DB, tables ...any) error {
	for _, table := range tables {
		_, err := db.NewDropTable().Model(table).IfExists().Cascade().Exec(ctx)
		if err != nil {
			return fmt.Errorf("drop table %T: %w", table, err)
		}
	}
	return nil
}
