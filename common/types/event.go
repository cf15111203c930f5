package types

import "time"

// PlatformEvent is the envelope published to nats for every lifecycle
// transition on a build, dataset version, train job, inference service
// or pipeline run.
type PlatformEvent struct {
	UUID      string    `json:"uuid"`
	Subject   string    `json:"subject"`
	Payload   string    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

type WebHookEventType string

const (
	WebHookEventEnvironmentBuild WebHookEventType = "environment_build"
	WebHookEventTrainJob         WebHookEventType = "train_job"
	WebHookEventInferenceService WebHookEventType = "inference_service"
)

// WebHookEvent is what the runner POSTs back to the api server whenever a
// watched resource changes state. Exactly one of the payload fields is set,
// matching EventType.
type WebHookEvent struct {
	EventType WebHookEventType       `json:"event_type"`
	EventTime int64                  `json:"event_time"`
	PoolID    string                 `json:"pool_id,omitempty"`
	Build     *EnvironmentBuildEvent `json:"build,omitempty"`
	Job       *TrainJobEvent         `json:"job,omitempty"`
	Service   *InferenceEvent        `json:"service,omitempty"`
}
