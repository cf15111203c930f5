package router

import (
	"github.com/google/wire"
	"tunehub.io/tunehub-server/api/handler"
)

// HandlerRegistry bundles every api handler the router mounts.
type HandlerRegistry struct {
	Cluster     *handler.ClusterHandler
	Environment *handler.EnvironmentHandler
	Dataset     *handler.DatasetHandler
	TrainJob    *handler.TrainJobHandler
	Model       *handler.ModelHandler
	Inference   *handler.InferenceHandler
	Pipeline    *handler.PipelineHandler
	Callback    *handler.CallbackHandler
}

var HandlerSet = wire.NewSet(
	handler.NewClusterHandler,
	handler.NewEnvironmentHandler,
	handler.NewDatasetHandler,
	handler.NewTrainJobHandler,
	handler.NewModelHandler,
	handler.NewInferenceHandler,
	handler.NewPipelineHandler,
	handler.NewCallbackHandler,
	wire.Struct(new(HandlerRegistry), "*"),
)
