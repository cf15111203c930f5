package component

import (
	"context"
	"fmt"

	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

// CallbackComponent fans runner webhooks out to the component owning the
// reported resource.
type CallbackComponent interface {
	HandleRunnerEvent(ctx context.Context, event *types.WebHookEvent) error
}

type callbackComponentImpl struct {
	envComp EnvironmentComponent
	jobComp TrainJobComponent
	infComp InferenceComponent
}

func NewCallbackComponent(ctx context.Context, config *config.Config) (CallbackComponent, error) {
	envComp, err := NewEnvironmentComponent(ctx, config)
	if err != nil {
		return nil, err
	}
	jobComp, err := NewTrainJobComponent(config)
	if err != nil {
		return nil, err
	}
	infComp, err := NewInferenceComponent(config)
	if err != nil {
		return nil, err
	}
	return &callbackComponentImpl{
		envComp: envComp,
		jobComp: jobComp,
		infComp: infComp,
	}, nil
}

func (c *callbackComponentImpl) HandleRunnerEvent(ctx context.Context, event *types.WebHookEvent) error {
	switch event.EventType {
	case types.WebHookEventEnvironmentBuild:
		if event.Build == nil {
			return errorx.ReqBodyFormat(fmt.Errorf("%s event without build payload", event.EventType), nil)
		}
		return c.envComp.HandleBuildEvent(ctx, event.Build)
	case types.WebHookEventTrainJob:
		if event.Job == nil {
			return errorx.ReqBodyFormat(fmt.Errorf("%s event without job payload", event.EventType), nil)
		}
		return c.jobComp.HandleJobEvent(ctx, event.Job)
	case types.WebHookEventInferenceService:
		if event.Service == nil {
			return errorx.ReqBodyFormat(fmt.Errorf("%s event without service payload", event.EventType), nil)
		}
		return c.infComp.HandleServiceEvent(ctx, event.Service)
	default:
		return errorx.ReqBodyFormat(fmt.Errorf("unknown webhook event type %q", event.EventType), nil)
	}
}
