package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"tunehub.io/tunehub-server/common/types"
)

type Dataset struct {
	ID            int64             `bun:",pk,autoincrement" json:"id"`
	Name          string            `bun:",notnull,unique" json:"name"`
	Task          string            `bun:",notnull" json:"task"`
	SourceURLs    map[string]string `bun:",type:jsonb,nullzero" json:"source_urls"`
	VocabURL      string            `bun:",nullzero" json:"vocab_url"`
	LatestVersion int               `bun:",notnull,default:0" json:"latest_version"`
	times
}

type DatasetVersion struct {
	ID                int64                            `bun:",pk,autoincrement" json:"id"`
	DatasetID         int64                            `bun:",notnull,unique:dataset_version_uq" json:"dataset_id"`
	Dataset           *Dataset                         `bun:"rel:belongs-to,join:dataset_id=id" json:"dataset"`
	Version           int                              `bun:",notnull,unique:dataset_version_uq" json:"version"`
	Status            types.DatasetVersionStatus       `bun:",notnull" json:"status"`
	StoragePrefix     string                           `bun:",nullzero" json:"storage_prefix"`
	Model             string                           `bun:",nullzero" json:"model"`
	VocabFingerprint  string                           `bun:",nullzero" json:"vocab_fingerprint"`
	MaxSequenceLength int                              `bun:",notnull,default:0" json:"max_sequence_length"`
	SizeBytes         int64                            `bun:",notnull,default:0" json:"size_bytes"`
	Splits            map[string]types.DatasetSplitRes `bun:",type:jsonb,nullzero" json:"splits"`
	Metadata          map[string]string                `bun:",type:jsonb,nullzero" json:"metadata"`
	Message           string                           `bun:",nullzero" json:"message"`
	times
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		err := createTables(ctx, db, Dataset{}, DatasetVersion{})
		if err != nil {
			return err
		}
		_, err = db.NewCreateIndex().
			Model((*DatasetVersion)(nil)).
			Index("idx_dataset_versions_dataset_id").
			Column("dataset_id").
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		return dropTables(ctx, db, DatasetVersion{}, Dataset{})
	})
}
