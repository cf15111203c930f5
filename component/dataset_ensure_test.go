package component

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	mockdb "tunehub.io/tunehub-server/_mocks/tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

func TestDatasetComponent_EnsureReadyReturnsExistingVersion(t *testing.T) {
	ctx := context.TODO()
	versionStore := &mockdb.MockDatasetVersionStore{}
	c := &datasetComponentImpl{
		config:       &config.Config{},
		versionStore: versionStore,
	}

	versionStore.On("LatestReady", ctx, "imdb-reviews").Return(&database.DatasetVersion{
		Version: 2,
		Status:  types.DatasetVersionReady,
		Dataset: &database.Dataset{Name: "imdb-reviews"},
	}, nil)

	dv, err := c.EnsureReady(ctx, "imdb-reviews", "bert-base-uncased")
	require.NoError(t, err)
	require.Equal(t, 2, dv.Version)
	require.Equal(t, "imdb-reviews", dv.DatasetName)
}

func TestDatasetComponent_EnsureReadyNeedsRecordedSources(t *testing.T) {
	ctx := context.TODO()
	versionStore := &mockdb.MockDatasetVersionStore{}
	datasetStore := &mockdb.MockDatasetStore{}
	c := &datasetComponentImpl{
		config:       &config.Config{},
		datasetStore: datasetStore,
		versionStore: versionStore,
	}

	versionStore.On("LatestReady", ctx, "imdb-reviews").Return(nil, errorx.ErrNotFound)
	datasetStore.On("ByName", ctx, "imdb-reviews").Return(database.Dataset{
		Name: "imdb-reviews",
		Task: "text-classification",
	}, nil)

	_, err := c.EnsureReady(ctx, "imdb-reviews", "bert-base-uncased")
	require.True(t, errors.Is(err, errorx.ErrDatasetBadFormat))
}

func TestDatasetComponent_EnsureReadyPropagatesStoreError(t *testing.T) {
	ctx := context.TODO()
	versionStore := &mockdb.MockDatasetVersionStore{}
	c := &datasetComponentImpl{
		config:       &config.Config{},
		versionStore: versionStore,
	}

	versionStore.On("LatestReady", ctx, "imdb-reviews").Return(nil, errors.New("connection refused"))

	_, err := c.EnsureReady(ctx, "imdb-reviews", "bert-base-uncased")
	require.Error(t, err)
	require.False(t, errors.Is(err, errorx.ErrDatasetBadFormat))
}
