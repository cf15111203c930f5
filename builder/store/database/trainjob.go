package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/looplab/fsm"
	"github.com/uptrace/bun"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

type trainJobStoreImpl struct {
	db *DB
}

type TrainJobStore interface {
	Create(ctx context.Context, job TrainJob) (TrainJob, error)
	Update(ctx context.Context, job TrainJob) (TrainJob, error)
	ByName(ctx context.Context, name string) (*TrainJob, error)
	ByExperiment(ctx context.Context, experiment string, per, page int) ([]TrainJob, int, error)
	List(ctx context.Context, per, page int) ([]TrainJob, int, error)
	// Transition runs the fsm event against the stored status and
	// persists the result. Rejected events return ErrJobInvalidTransition.
	Transition(ctx context.Context, name string, event string, message string) (*TrainJob, error)
	// ClaimTimedOut picks jobs running past the deadline with skip locked,
	// fails them, and returns the claimed rows.
	ClaimTimedOut(ctx context.Context, timeout time.Duration) ([]TrainJob, error)
}

func NewTrainJobStore() TrainJobStore {
	return &trainJobStoreImpl{
		db: defaultDB,
	}
}

func NewTrainJobStoreWithDB(db *DB) TrainJobStore {
	return &trainJobStoreImpl{
		db: db,
	}
}

type TrainJob struct {
	ID             int64                `bun:",pk,autoincrement" json:"id"`
	Name           string               `bun:",notnull,unique" json:"name"`
	Experiment     string               `bun:",notnull" json:"experiment"`
	ComputeTarget  string               `bun:",notnull" json:"compute_target"`
	Environment    string               `bun:",notnull" json:"environment"`
	Image          string               `bun:",nullzero" json:"image"`
	DatasetName    string               `bun:",nullzero" json:"dataset_name"`
	DatasetVersion int                  `bun:",notnull,default:0" json:"dataset_version"`
	Command        string               `bun:",notnull" json:"command"`
	NodeCount      int                  `bun:",notnull" json:"node_count"`
	ProcessCount   int                  `bun:",notnull" json:"process_count"`
	Settings       string               `bun:",nullzero" json:"settings"`
	Accelerator    string               `bun:",nullzero" json:"accelerator"`
	Status         types.TrainJobStatus `bun:",notnull" json:"status"`
	Message        string               `bun:",nullzero" json:"message"`
	Reason         string               `bun:",nullzero" json:"reason"`
	SourcePrefix   string               `bun:",nullzero" json:"source_prefix"`
	ArtifactPrefix string               `bun:",nullzero" json:"artifact_prefix"`
	Metrics        map[string]float64   `bun:",type:jsonb,nullzero" json:"metrics"`
	PoolID         string               `bun:"" json:"pool_id"`

	StartedAt  time.Time `bun:",nullzero" json:"started_at"`
	FinishedAt time.Time `bun:",nullzero" json:"finished_at"`
	times
}

type TrainJobWithFSM struct {
	job  *TrainJob
	from types.TrainJobStatus
	fsm  *fsm.FSM
}

const (
	JobSchedule = "schedule"
	JobRun      = "run"
	JobSucceed  = "succeed"
	JobFail     = "fail"
	JobStop     = "stop"
)

func NewTrainJobWithFSM(job *TrainJob) TrainJobWithFSM {
	return TrainJobWithFSM{
		job:  job,
		from: job.Status,
		fsm: fsm.NewFSM(
			string(job.Status),
			fsm.Events{
				{
					Name: JobSchedule,
					Src: []string{
						string(types.TrainJobPending),
					},
					Dst: string(types.TrainJobScheduling),
				},
				{
					Name: JobRun,
					Src: []string{
						string(types.TrainJobScheduling),
					},
					Dst: string(types.TrainJobRunning),
				},
				{
					Name: JobSucceed,
					Src: []string{
						string(types.TrainJobRunning),
					},
					Dst: string(types.TrainJobSucceeded),
				},
				{
					Name: JobFail,
					Src: []string{
						string(types.TrainJobPending),
						string(types.TrainJobScheduling),
						string(types.TrainJobRunning),
					},
					Dst: string(types.TrainJobFailed),
				},
				{
					Name: JobStop,
					Src: []string{
						string(types.TrainJobPending),
						string(types.TrainJobScheduling),
						string(types.TrainJobRunning),
					},
					Dst: string(types.TrainJobStopped),
				},
			},
			fsm.Callbacks{
				"entry_state": func(ctx context.Context, event *fsm.Event) {
					job.Status = types.TrainJobStatus(event.Dst)
				},
			},
		),
	}
}

func (m *TrainJobWithFSM) SubmitEvent(ctx context.Context, event string) bool {
	return m.fsm.Event(ctx, event) == nil
}

func (m *TrainJobWithFSM) Current() string {
	return m.fsm.Current()
}

func (s *trainJobStoreImpl) Create(ctx context.Context, job TrainJob) (TrainJob, error) {
	err := s.db.Operator.Core.NewInsert().Model(&job).Scan(ctx, &job)
	return job, errorx.HandleDBError(err, nil)
}

func (s *trainJobStoreImpl) Update(ctx context.Context, job TrainJob) (TrainJob, error) {
	job.UpdatedAt = time.Now()
	_, err := s.db.Operator.Core.NewUpdate().Model(&job).WherePK().Exec(ctx)
	return job, errorx.HandleDBError(err, nil)
}

func (s *trainJobStoreImpl) ByName(ctx context.Context, name string) (*TrainJob, error) {
	var job TrainJob
	err := s.db.Operator.Core.NewSelect().Model(&job).Where("name = ?", name).Scan(ctx)
	return &job, errorx.HandleDBError(err, errorx.Ctx().Set("job_name", name))
}

func (s *trainJobStoreImpl) ByExperiment(ctx context.Context, experiment string, per, page int) ([]TrainJob, int, error) {
	var jobs []TrainJob
	q := s.db.Operator.Core.NewSelect().Model(&jobs).Where("experiment = ?", experiment)
	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, errorx.HandleDBError(err, nil)
	}
	err = q.Order("created_at DESC").
		Limit(per).
		Offset((page - 1) * per).
		Scan(ctx)
	return jobs, total, errorx.HandleDBError(err, nil)
}

func (s *trainJobStoreImpl) List(ctx context.Context, per, page int) ([]TrainJob, int, error) {
	var jobs []TrainJob
	q := s.db.Operator.Core.NewSelect().Model(&jobs)
	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, errorx.HandleDBError(err, nil)
	}
	err = q.Order("created_at DESC").
		Limit(per).
		Offset((page - 1) * per).
		Scan(ctx)
	return jobs, total, errorx.HandleDBError(err, nil)
}

func (s *trainJobStoreImpl) Transition(ctx context.Context, name string, event string, message string) (*TrainJob, error) {
	var job TrainJob
	err := s.db.Operator.Core.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(&job).
			Where("name = ?", name).
			For("UPDATE OF train_job SKIP LOCKED").
			Scan(ctx)
		if err != nil {
			return err
		}
		jFSM := NewTrainJobWithFSM(&job)
		if !jFSM.SubmitEvent(ctx, event) {
			return errorx.JobInvalidTransition(
				fmt.Errorf("train job status %s not allow event %s", job.Status, event),
				errorx.Ctx().Set("job_name", name),
			)
		}
		job.Status = types.TrainJobStatus(jFSM.Current())
		if message != "" {
			job.Message = message
		}
		switch job.Status {
		case types.TrainJobRunning:
			job.StartedAt = time.Now()
		case types.TrainJobSucceeded, types.TrainJobFailed, types.TrainJobStopped:
			job.FinishedAt = time.Now()
		}
		job.UpdatedAt = time.Now()
		_, err = tx.NewUpdate().Model(&job).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, errorx.ErrJobInvalidTransition) {
			return &job, err
		}
		return &job, errorx.HandleDBError(err, errorx.Ctx().Set("job_name", name))
	}
	return &job, nil
}

func (s *trainJobStoreImpl) ClaimTimedOut(ctx context.Context, timeout time.Duration) ([]TrainJob, error) {
	var jobs []TrainJob
	err := s.db.Operator.Core.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		deadline := time.Now().Add(-timeout)
		err := tx.NewSelect().
			Model(&jobs).
			Where("train_job.status IN (?)", bun.In([]types.TrainJobStatus{
				types.TrainJobScheduling,
				types.TrainJobRunning,
			})).
			Where("train_job.created_at < ?", deadline).
			For("UPDATE OF train_job SKIP LOCKED").
			Scan(ctx)
		if err != nil {
			return err
		}
		for i := range jobs {
			jFSM := NewTrainJobWithFSM(&jobs[i])
			if !jFSM.SubmitEvent(ctx, JobFail) {
				continue
			}
			jobs[i].Status = types.TrainJobStatus(jFSM.Current())
			jobs[i].Message = fmt.Sprintf("job exceeded the %s run deadline", timeout)
			jobs[i].FinishedAt = time.Now()
			jobs[i].UpdatedAt = time.Now()
			if _, err := tx.NewUpdate().Model(&jobs[i]).WherePK().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	return jobs, errorx.HandleDBError(err, nil)
}
