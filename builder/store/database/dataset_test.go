package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/tests"
	"tunehub.io/tunehub-server/common/types"
)

func TestDatasetStore_CRUD(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewDatasetStoreWithDB(db)

	_, err := store.Create(ctx, database.Dataset{
		Name: "cola",
		Task: "text-classification",
	})
	require.Nil(t, err)

	ds := &database.Dataset{}
	err = db.Core.NewSelect().Model(ds).Where("name = ?", "cola").Scan(ctx)
	require.Nil(t, err)
	require.Equal(t, "text-classification", ds.Task)
	require.Equal(t, 0, ds.LatestVersion)

	v, err := store.NextVersion(ctx, "cola")
	require.Nil(t, err)
	require.Equal(t, 1, v)

	got, err := store.ByName(ctx, "cola")
	require.Nil(t, err)
	require.Equal(t, 1, got.LatestVersion)

	datasets, total, err := store.List(ctx, 10, 1)
	require.Nil(t, err)
	require.Equal(t, 1, total)
	require.Len(t, datasets, 1)
}

func TestDatasetVersionStore_Lifecycle(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewDatasetStoreWithDB(db)
	versionStore := database.NewDatasetVersionStoreWithDB(db)

	ds, err := store.Create(ctx, database.Dataset{Name: "cola", Task: "text-classification"})
	require.Nil(t, err)

	v1, err := versionStore.Create(ctx, database.DatasetVersion{
		DatasetID: ds.ID,
		Version:   1,
		Status:    types.DatasetVersionPreparing,
		Model:     "bert-base-uncased",
	})
	require.Nil(t, err)

	// nothing ready yet
	_, err = versionStore.LatestReady(ctx, "cola")
	require.NotNil(t, err)

	v1.Status = types.DatasetVersionReady
	v1.StoragePrefix = "datasets/cola/v1"
	v1.VocabFingerprint = "9c4f21aa07b3e6d2"
	v1.MaxSequenceLength = 128
	v1.SizeBytes = 1 << 20
	v1.Splits = map[string]types.DatasetSplitRes{
		"train": {Name: "train", RowCount: 8551, SizeBytes: 900 * 1024},
		"test":  {Name: "test", RowCount: 1063, SizeBytes: 124 * 1024},
	}
	_, err = versionStore.Update(ctx, v1)
	require.Nil(t, err)

	v2, err := versionStore.Create(ctx, database.DatasetVersion{
		DatasetID: ds.ID,
		Version:   2,
		Status:    types.DatasetVersionPreparing,
	})
	require.Nil(t, err)

	// latest ready skips the still preparing v2
	ready, err := versionStore.LatestReady(ctx, "cola")
	require.Nil(t, err)
	require.Equal(t, 1, ready.Version)
	require.Equal(t, "datasets/cola/v1", ready.StoragePrefix)
	require.Equal(t, int64(8551), ready.Splits["train"].RowCount)

	err = versionStore.MarkFailed(ctx, v2.ID, "tokenizer vocab download failed")
	require.Nil(t, err)

	got, err := versionStore.ByNameAndVersion(ctx, "cola", 2)
	require.Nil(t, err)
	require.Equal(t, types.DatasetVersionFailed, got.Status)
	require.Equal(t, "tokenizer vocab download failed", got.Message)

	versions, err := versionStore.ListByDatasetID(ctx, ds.ID)
	require.Nil(t, err)
	require.Len(t, versions, 2)
}

func TestDatasetVersionStore_UniquePerDataset(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewDatasetStoreWithDB(db)
	versionStore := database.NewDatasetVersionStoreWithDB(db)

	ds, err := store.Create(ctx, database.Dataset{Name: "sst2", Task: "text-classification"})
	require.Nil(t, err)

	_, err = versionStore.Create(ctx, database.DatasetVersion{
		DatasetID: ds.ID,
		Version:   1,
		Status:    types.DatasetVersionPreparing,
	})
	require.Nil(t, err)

	_, err = versionStore.Create(ctx, database.DatasetVersion{
		DatasetID: ds.ID,
		Version:   1,
		Status:    types.DatasetVersionPreparing,
	})
	require.NotNil(t, err)
}
