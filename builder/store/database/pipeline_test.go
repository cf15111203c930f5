package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/tests"
	"tunehub.io/tunehub-server/common/types"
)

func TestPipelineRunStore_CRUD(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewPipelineRunStoreWithDB(db)

	run, err := store.Create(ctx, database.PipelineRun{
		WorkflowID: "pipeline-bert-cola-8m2k1x",
		Experiment: "bert-cola",
		Status:     types.PipelineRunStatusPending,
		Settings:   `{"model":"bert-base-uncased","task":"text-classification"}`,
	})
	require.Nil(t, err)
	require.Greater(t, run.ID, int64(0))

	got, err := store.ByID(ctx, run.ID)
	require.Nil(t, err)
	require.Equal(t, "bert-cola", got.Experiment)

	got, err = store.ByWorkflowID(ctx, "pipeline-bert-cola-8m2k1x")
	require.Nil(t, err)
	require.Equal(t, run.ID, got.ID)

	err = store.UpdateStage(ctx, run.WorkflowID, types.PipelineStageDataset)
	require.Nil(t, err)

	got, err = store.ByWorkflowID(ctx, run.WorkflowID)
	require.Nil(t, err)
	require.Equal(t, types.PipelineStageDataset, got.Stage)
	require.Equal(t, types.PipelineRunStatusRunning, got.Status)

	got.TrainJobName = "jb9f3k1"
	got.ModelName = "bert-cola-classifier"
	got.ModelVersion = 1
	_, err = store.Update(ctx, *got)
	require.Nil(t, err)

	err = store.MarkFinished(ctx, run.WorkflowID, types.PipelineRunStatusSucceeded, "")
	require.Nil(t, err)

	got, err = store.ByWorkflowID(ctx, run.WorkflowID)
	require.Nil(t, err)
	require.Equal(t, types.PipelineRunStatusSucceeded, got.Status)
	require.Equal(t, "jb9f3k1", got.TrainJobName)
	require.False(t, got.FinishedAt.IsZero())

	runs, total, err := store.ByExperiment(ctx, "bert-cola", 10, 1)
	require.Nil(t, err)
	require.Equal(t, 1, total)
	require.Len(t, runs, 1)

	_, total, err = store.List(ctx, 10, 1)
	require.Nil(t, err)
	require.Equal(t, 1, total)
}
