package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/tests"
	"tunehub.io/tunehub-server/common/types"
)

func TestEnvironmentStore_CRUD(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewEnvironmentStoreWithDB(db)

	env, err := store.Create(ctx, database.Environment{
		Name:        "bert-train-env",
		Description: "transformers + deepspeed",
	})
	require.Nil(t, err)
	require.Equal(t, 0, env.LatestVersion)

	v, err := store.NextVersion(ctx, "bert-train-env")
	require.Nil(t, err)
	require.Equal(t, 1, v)

	v, err = store.NextVersion(ctx, "bert-train-env")
	require.Nil(t, err)
	require.Equal(t, 2, v)

	got, err := store.ByName(ctx, "bert-train-env")
	require.Nil(t, err)
	require.Equal(t, 2, got.LatestVersion)

	envs, err := store.List(ctx)
	require.Nil(t, err)
	require.Len(t, envs, 1)
}

func TestEnvironmentBuildStore_Lifecycle(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewEnvironmentStoreWithDB(db)
	buildStore := database.NewEnvironmentBuildStoreWithDB(db)

	env, err := store.Create(ctx, database.Environment{Name: "bert-train-env"})
	require.Nil(t, err)

	build, err := buildStore.Create(ctx, database.EnvironmentBuild{
		BuildID:       "b1a2c3",
		EnvironmentID: env.ID,
		Version:       1,
		Dockerfile:    "FROM pytorch/pytorch:2.3.0-cuda12.1-cudnn8-runtime",
		Status:        types.BuildStatusPending,
	})
	require.Nil(t, err)

	err = buildStore.UpdateStatus(ctx, build.BuildID, types.BuildStatusBuilding, "")
	require.Nil(t, err)

	running, err := buildStore.RunningByEnvironmentID(ctx, env.ID)
	require.Nil(t, err)
	require.Len(t, running, 1)

	err = buildStore.MarkSucceeded(ctx, build.BuildID, "registry.tunehub.io/envs/bert-train-env:1")
	require.Nil(t, err)

	got, err := buildStore.ByBuildID(ctx, build.BuildID)
	require.Nil(t, err)
	require.Equal(t, types.BuildStatusSucceeded, got.Status)
	require.Equal(t, "registry.tunehub.io/envs/bert-train-env:1", got.Image)
	require.False(t, got.FinishedAt.IsZero())

	// image is published onto the environment in the same tx
	updatedEnv, err := store.ByName(ctx, "bert-train-env")
	require.Nil(t, err)
	require.Equal(t, "registry.tunehub.io/envs/bert-train-env:1", updatedEnv.Image)

	running, err = buildStore.RunningByEnvironmentID(ctx, env.ID)
	require.Nil(t, err)
	require.Len(t, running, 0)

	builds, err := buildStore.ListByEnvironmentID(ctx, env.ID, 10, 1)
	require.Nil(t, err)
	require.Len(t, builds, 1)
}
