package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/tests"
	"tunehub.io/tunehub-server/common/types"
)

func TestRegisteredModelStore_CreateIfNotExist(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewRegisteredModelStoreWithDB(db)

	m, err := store.CreateIfNotExist(ctx, database.RegisteredModel{
		Name:        "bert-cola-classifier",
		Description: "fine tuned bert for cola",
	})
	require.Nil(t, err)
	require.Greater(t, m.ID, int64(0))

	// second call returns the existing row untouched
	m2, err := store.CreateIfNotExist(ctx, database.RegisteredModel{
		Name:        "bert-cola-classifier",
		Description: "other description",
	})
	require.Nil(t, err)
	require.Equal(t, m.ID, m2.ID)
	require.Equal(t, "fine tuned bert for cola", m2.Description)
}

func TestRegisteredModelStore_RegisterVersion(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewRegisteredModelStoreWithDB(db)
	versionStore := database.NewModelVersionStoreWithDB(db)

	_, err := store.CreateIfNotExist(ctx, database.RegisteredModel{Name: "bert-cola-classifier"})
	require.Nil(t, err)

	v1, err := store.RegisterVersion(ctx, "bert-cola-classifier", database.ModelVersion{
		JobName:       "jb9f3k1",
		Experiment:    "bert-cola",
		Status:        types.ModelVersionStatusRegistered,
		StoragePrefix: "jobs/jb9f3k1/outputs",
		Metric:        "matthews_correlation",
		MetricValue:   0.52,
	})
	require.Nil(t, err)
	require.Equal(t, 1, v1.Version)

	v2, err := store.RegisterVersion(ctx, "bert-cola-classifier", database.ModelVersion{
		JobName:       "jb9f3k2",
		Experiment:    "bert-cola",
		Status:        types.ModelVersionStatusRegistered,
		StoragePrefix: "jobs/jb9f3k2/outputs",
		Metric:        "matthews_correlation",
		MetricValue:   0.55,
	})
	require.Nil(t, err)
	require.Equal(t, 2, v2.Version)

	m, err := store.ByName(ctx, "bert-cola-classifier")
	require.Nil(t, err)
	require.Equal(t, 2, m.LatestVersion)

	latest, err := versionStore.Latest(ctx, "bert-cola-classifier")
	require.Nil(t, err)
	require.Equal(t, 2, latest.Version)
	require.Equal(t, "jb9f3k2", latest.JobName)

	got, err := versionStore.ByNameAndVersion(ctx, "bert-cola-classifier", 1)
	require.Nil(t, err)
	require.Equal(t, "jobs/jb9f3k1/outputs", got.StoragePrefix)
	require.Equal(t, 0.52, got.MetricValue)

	byJob, err := versionStore.ByJobName(ctx, "jb9f3k1")
	require.Nil(t, err)
	require.Equal(t, 1, byJob.Version)

	versions, err := versionStore.ListByModelID(ctx, m.ID)
	require.Nil(t, err)
	require.Len(t, versions, 2)

	models, total, err := store.List(ctx, 10, 1)
	require.Nil(t, err)
	require.Equal(t, 1, total)
	require.Len(t, models, 1)
}

func TestRegisteredModelStore_RegisterVersionMissingModel(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewRegisteredModelStoreWithDB(db)

	_, err := store.RegisterVersion(ctx, "no-such-model", database.ModelVersion{
		JobName:       "jb9f3k9",
		Status:        types.ModelVersionStatusRegistered,
		StoragePrefix: "jobs/jb9f3k9/outputs",
	})
	require.NotNil(t, err)
}
