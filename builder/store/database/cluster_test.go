package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/tests"
	"tunehub.io/tunehub-server/common/types"
)

func TestComputeClusterStore_CRUD(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewComputeClusterStoreWithDB(db)

	created, err := store.Create(ctx, database.ComputeCluster{
		Name:         "gpu-cluster",
		InstanceSize: "gpu.a100.4xlarge",
		NodeCount:    2,
		Status:       types.ClusterStatusProvisioning,
	})
	require.Nil(t, err)
	require.Greater(t, created.ID, int64(0))

	var cc database.ComputeCluster
	err = db.Core.NewSelect().Model(&cc).Where("name = ?", "gpu-cluster").Scan(ctx)
	require.Nil(t, err)
	require.Equal(t, "gpu.a100.4xlarge", cc.InstanceSize)
	require.Equal(t, 2, cc.NodeCount)
	require.Equal(t, types.ClusterStatusProvisioning, cc.Status)

	err = store.UpdateStatus(ctx, "gpu-cluster", types.ClusterStatusReady, "")
	require.Nil(t, err)

	got, err := store.ByName(ctx, "gpu-cluster")
	require.Nil(t, err)
	require.Equal(t, types.ClusterStatusReady, got.Status)

	got.NodeCount = 4
	updated, err := store.Update(ctx, got)
	require.Nil(t, err)
	require.Equal(t, 4, updated.NodeCount)

	clusters, err := store.List(ctx)
	require.Nil(t, err)
	require.Len(t, clusters, 1)

	err = store.Delete(ctx, "gpu-cluster")
	require.Nil(t, err)

	_, err = store.ByName(ctx, "gpu-cluster")
	require.NotNil(t, err)
}

func TestComputeClusterStore_ByNameNotFound(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewComputeClusterStoreWithDB(db)

	_, err := store.ByName(ctx, "no-such-cluster")
	require.NotNil(t, err)
	// callers branch on not found to provision a fresh cluster
	require.True(t, errors.Is(err, sql.ErrNoRows))
	require.True(t, errors.Is(err, errorx.ErrDatabaseNoRows))
}

func TestComputeClusterStore_DuplicateName(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewComputeClusterStoreWithDB(db)

	_, err := store.Create(ctx, database.ComputeCluster{
		Name:         "dup",
		InstanceSize: "cpu.xlarge",
		NodeCount:    1,
		Status:       types.ClusterStatusReady,
	})
	require.Nil(t, err)

	_, err = store.Create(ctx, database.ComputeCluster{
		Name:         "dup",
		InstanceSize: "cpu.xlarge",
		NodeCount:    1,
		Status:       types.ClusterStatusReady,
	})
	require.NotNil(t, err)
	require.True(t, errors.Is(err, errorx.ErrDatabaseDuplicateKey))
}
