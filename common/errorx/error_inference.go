package errorx

import "fmt"

const errInferencePrefix = "INF-ERR"

const (
	serviceNotFound = iota
	serviceNotReady
	multiHostReplicaCount
	predictFailed
)

// InferenceErrors maps code strings coming back from the runner to
// error objects, so the api server can rewrap them with errors.Is intact.
var InferenceErrors = map[string]error{
	fmt.Sprintf("%s-%d", errInferencePrefix, serviceNotFound):       ErrServiceNotFound,
	fmt.Sprintf("%s-%d", errInferencePrefix, serviceNotReady):       ErrServiceNotReady,
	fmt.Sprintf("%s-%d", errInferencePrefix, multiHostReplicaCount): ErrMultiHostReplicaCount,
	fmt.Sprintf("%s-%d", errInferencePrefix, predictFailed):         ErrPredictFailed,
}

var (
	// inference service not found
	//
	// Description: No inference service is deployed under the given name.
	//
	// Description_ZH: 找不到指定名称的推理服务。
	//
	// en-US: Inference service not found
	//
	// zh-CN: 未找到推理服务
	//
	// zh-HK: 未找到推理服務
	ErrServiceNotFound error = CustomError{prefix: errInferencePrefix, code: serviceNotFound}
	// inference service has no ready instance
	//
	// Description: The inference service exists but no instance is ready to take traffic yet. Retry once the service reports Running.
	//
	// Description_ZH: 推理服务存在，但还没有可接收流量的就绪实例。待服务状态变为 Running 后重试。
	//
	// en-US: Inference service is not ready
	//
	// zh-CN: 推理服务未就绪
	//
	// zh-HK: 推理服務未就緒
	ErrServiceNotReady error = CustomError{prefix: errInferencePrefix, code: serviceNotReady}
	// multi-host inference only supports a replica count greater than 0
	//
	// Description: For multi-host inference the node count must be greater than zero so a leader and its workers can be formed.
	//
	// Description_ZH: 多主机推理的节点数必须大于零，才能组成 leader 与 worker。
	//
	// en-US: Multi-host inference requires node count to be greater than zero
	//
	// zh-CN: 多主机推理仅支持大于 0 的节点数
	//
	// zh-HK: 多主機推理僅支持大於 0 的節點數
	ErrMultiHostReplicaCount error = CustomError{prefix: errInferencePrefix, code: multiHostReplicaCount}
	// forwarding the predict call failed
	//
	// Description: The predict request could not be forwarded to the service endpoint, or the endpoint returned a failure.
	//
	// Description_ZH: 预测请求无法转发到服务端点，或端点返回失败。
	//
	// en-US: Predict request failed
	//
	// zh-CN: 预测请求失败
	//
	// zh-HK: 預測請求失敗
	ErrPredictFailed error = CustomError{prefix: errInferencePrefix, code: predictFailed}
)

func PredictFailed(err error, ctx context) error {
	return CustomError{
		prefix:  errInferencePrefix,
		context: ctx,
		err:     err,
		code:    predictFailed,
	}
}
