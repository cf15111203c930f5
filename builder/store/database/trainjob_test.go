package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/tests"
	"tunehub.io/tunehub-server/common/types"
)

func TestTrainJobStore_CRUD(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewTrainJobStoreWithDB(db)

	job, err := store.Create(ctx, database.TrainJob{
		Name:          "jb9f3k1",
		Experiment:    "bert-cola",
		ComputeTarget: "gpu-cluster",
		Environment:   "bert-train-env",
		Command:       "python train.py",
		NodeCount:     2,
		ProcessCount:  4,
		Status:        types.TrainJobPending,
	})
	require.Nil(t, err)
	require.Greater(t, job.ID, int64(0))

	got, err := store.ByName(ctx, "jb9f3k1")
	require.Nil(t, err)
	require.Equal(t, "bert-cola", got.Experiment)
	require.Equal(t, 2, got.NodeCount)
	require.Equal(t, 4, got.ProcessCount)
	require.Equal(t, types.TrainJobPending, got.Status)

	got.Metrics = map[string]float64{"eval_matthews_correlation": 0.52}
	_, err = store.Update(ctx, *got)
	require.Nil(t, err)

	got, err = store.ByName(ctx, "jb9f3k1")
	require.Nil(t, err)
	require.Equal(t, 0.52, got.Metrics["eval_matthews_correlation"])

	jobs, total, err := store.ByExperiment(ctx, "bert-cola", 10, 1)
	require.Nil(t, err)
	require.Equal(t, 1, total)
	require.Len(t, jobs, 1)

	_, total, err = store.List(ctx, 10, 1)
	require.Nil(t, err)
	require.Equal(t, 1, total)
}

func TestTrainJobStore_Transition(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewTrainJobStoreWithDB(db)

	_, err := store.Create(ctx, database.TrainJob{
		Name:          "jb9f3k2",
		Experiment:    "bert-cola",
		ComputeTarget: "gpu-cluster",
		Environment:   "bert-train-env",
		Command:       "python train.py",
		NodeCount:     1,
		ProcessCount:  1,
		Status:        types.TrainJobPending,
	})
	require.Nil(t, err)

	job, err := store.Transition(ctx, "jb9f3k2", database.JobSchedule, "")
	require.Nil(t, err)
	require.Equal(t, types.TrainJobScheduling, job.Status)

	job, err = store.Transition(ctx, "jb9f3k2", database.JobRun, "")
	require.Nil(t, err)
	require.Equal(t, types.TrainJobRunning, job.Status)
	require.False(t, job.StartedAt.IsZero())

	job, err = store.Transition(ctx, "jb9f3k2", database.JobSucceed, "")
	require.Nil(t, err)
	require.Equal(t, types.TrainJobSucceeded, job.Status)
	require.False(t, job.FinishedAt.IsZero())

	// terminal states accept no further events
	_, err = store.Transition(ctx, "jb9f3k2", database.JobRun, "")
	require.NotNil(t, err)
	require.True(t, errors.Is(err, errorx.ErrJobInvalidTransition))

	got, err := store.ByName(ctx, "jb9f3k2")
	require.Nil(t, err)
	require.Equal(t, types.TrainJobSucceeded, got.Status)
}

func TestTrainJobStore_TransitionFailWithMessage(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewTrainJobStoreWithDB(db)

	_, err := store.Create(ctx, database.TrainJob{
		Name:          "jb9f3k3",
		Experiment:    "bert-cola",
		ComputeTarget: "gpu-cluster",
		Environment:   "bert-train-env",
		Command:       "python train.py",
		NodeCount:     1,
		ProcessCount:  1,
		Status:        types.TrainJobPending,
	})
	require.Nil(t, err)

	job, err := store.Transition(ctx, "jb9f3k3", database.JobFail, "image pull backoff")
	require.Nil(t, err)
	require.Equal(t, types.TrainJobFailed, job.Status)
	require.Equal(t, "image pull backoff", job.Message)
}

func TestTrainJobStore_ClaimTimedOut(t *testing.T) {
	db := tests.InitTestDB()
	defer db.Close()
	ctx := context.TODO()

	store := database.NewTrainJobStoreWithDB(db)

	_, err := store.Create(ctx, database.TrainJob{
		Name:          "jb9f3k4",
		Experiment:    "bert-cola",
		ComputeTarget: "gpu-cluster",
		Environment:   "bert-train-env",
		Command:       "python train.py",
		NodeCount:     1,
		ProcessCount:  1,
		Status:        types.TrainJobRunning,
	})
	require.Nil(t, err)

	_, err = store.Create(ctx, database.TrainJob{
		Name:          "jb9f3k5",
		Experiment:    "bert-cola",
		ComputeTarget: "gpu-cluster",
		Environment:   "bert-train-env",
		Command:       "python train.py",
		NodeCount:     1,
		ProcessCount:  1,
		Status:        types.TrainJobSucceeded,
	})
	require.Nil(t, err)

	// both rows were just created, nothing is past the deadline yet
	claimed, err := store.ClaimTimedOut(ctx, time.Hour)
	require.Nil(t, err)
	require.Len(t, claimed, 0)

	// a zero timeout puts the running job past the deadline
	time.Sleep(10 * time.Millisecond)
	claimed, err = store.ClaimTimedOut(ctx, 0)
	require.Nil(t, err)
	require.Len(t, claimed, 1)
	require.Equal(t, "jb9f3k4", claimed[0].Name)
	require.Equal(t, types.TrainJobFailed, claimed[0].Status)

	got, err := store.ByName(ctx, "jb9f3k4")
	require.Nil(t, err)
	require.Equal(t, types.TrainJobFailed, got.Status)

	// terminal job untouched
	got, err = store.ByName(ctx, "jb9f3k5")
	require.Nil(t, err)
	require.Equal(t, types.TrainJobSucceeded, got.Status)
}

func TestTrainJobWithFSM_Events(t *testing.T) {
	ctx := context.TODO()

	job := &database.TrainJob{Status: types.TrainJobPending}
	m := database.NewTrainJobWithFSM(job)

	require.False(t, m.SubmitEvent(ctx, database.JobSucceed))
	require.Equal(t, types.TrainJobPending, job.Status)

	require.True(t, m.SubmitEvent(ctx, database.JobSchedule))
	require.Equal(t, types.TrainJobScheduling, job.Status)

	m = database.NewTrainJobWithFSM(job)
	require.True(t, m.SubmitEvent(ctx, database.JobStop))
	require.Equal(t, types.TrainJobStopped, job.Status)

	m = database.NewTrainJobWithFSM(job)
	require.False(t, m.SubmitEvent(ctx, database.JobRun))
	require.Equal(t, types.TrainJobStopped, job.Status)
}
