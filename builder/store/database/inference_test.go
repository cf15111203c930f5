package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/tests"
	"tunehub.io/tunehub-server/common/types"
)

func TestInferenceServiceStore_CRUD(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewInferenceServiceStoreWithDB(db)

	svc, err := store.Create(ctx, database.InferenceService{
		Name:         "bert-cola-classifier-1",
		ModelName:    "bert-cola-classifier",
		ModelVersion: 1,
		Image:        "registry.tunehub.io/envs/bert-train-env:1",
		NodeCount:    1,
		ProcessCount: 1,
		Status:       types.InferenceStatusDeploying,
	})
	require.Nil(t, err)
	require.Greater(t, svc.ID, int64(0))

	err = store.UpdateStatus(ctx, svc.Name, types.InferenceStatusRunning, "http://bert-cola-classifier-1.tunehub.svc", "")
	require.Nil(t, err)

	got, err := store.ByName(ctx, svc.Name)
	require.Nil(t, err)
	require.Equal(t, types.InferenceStatusRunning, got.Status)
	require.Equal(t, "http://bert-cola-classifier-1.tunehub.svc", got.Endpoint)

	got.ProcessCount = 2
	_, err = store.Update(ctx, *got)
	require.Nil(t, err)

	svcs, total, err := store.List(ctx, 10, 1)
	require.Nil(t, err)
	require.Equal(t, 1, total)
	require.Len(t, svcs, 1)
	require.Equal(t, 2, svcs[0].ProcessCount)

	err = store.Delete(ctx, svc.Name)
	require.Nil(t, err)

	_, err = store.ByName(ctx, svc.Name)
	require.NotNil(t, err)
}
