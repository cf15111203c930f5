package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"tunehub.io/tunehub-server/common/types"
)

type InferenceService struct {
	ID           int64                 `bun:",pk,autoincrement" json:"id"`
	Name         string                `bun:",notnull,unique" json:"name"`
	ModelName    string                `bun:",notnull" json:"model_name"`
	ModelVersion int                   `bun:",notnull" json:"model_version"`
	Image        string                `bun:",notnull" json:"image"`
	Command      string                `bun:",nullzero" json:"command"`
	NodeCount    int                   `bun:",notnull,default:1" json:"node_count"`
	ProcessCount int                   `bun:",notnull,default:1" json:"process_count"`
	ComputeSize  string                `bun:",nullzero" json:"compute_size"`
	Status       types.InferenceStatus `bun:",notnull" json:"status"`
	Endpoint     string                `bun:",nullzero" json:"endpoint"`
	Message      string                `bun:",nullzero" json:"message"`
	PoolID       string                `bun:"" json:"pool_id"`
	times
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return createTables(ctx, db, InferenceService{})
	}, func(ctx context.Context, db *bun.DB) error {
		return dropTables(ctx, db, InferenceService{})
	})
}
