package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"tunehub.io/tunehub-server/common/types"
)

type ComputeCluster struct {
	ID           int64                      `bun:",pk,autoincrement" json:"id"`
	Name         string                     `bun:",notnull,unique" json:"name"`
	DisplayName  string                     `bun:"" json:"display_name"`
	InstanceSize string                     `bun:",notnull" json:"instance_size"`
	NodeCount    int                        `bun:",notnull" json:"node_count"`
	PoolID       string                     `bun:"" json:"pool_id"`
	Status       types.ComputeClusterStatus `bun:",notnull" json:"status"`
	Message      string                     `bun:",nullzero" json:"message"`
	times
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return createTables(ctx, db, ComputeCluster{})
	}, func(ctx context.Context, db *bun.DB) error {
		return dropTables(ctx, db, ComputeCluster{})
	})
}
