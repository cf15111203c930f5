package errorx

const errJobPrefix = "JOB-ERR"

const (
	jobNotFound = iota
	jobInvalidTransition
	jobWorldSizeMismatch
	jobSubmitFailed
	jobTimeout
	jobMetricsUnavailable
)

var (
	// train job not found
	//
	// Description: No train job is recorded under the given name.
	//
	// Description_ZH: 找不到指定名称的训练任务。
	//
	// en-US: Train job not found
	//
	// zh-CN: 未找到训练任务
	//
	// zh-HK: 未找到訓練任務
	ErrJobNotFound error = CustomError{prefix: errJobPrefix, code: jobNotFound}
	// the requested status change is not allowed from the current status
	//
	// Description: The train job lifecycle only moves forward. The requested transition is not reachable from the job's current status, for example stopping a job that already finished.
	//
	// Description_ZH: 训练任务的生命周期只能向前推进。当前状态无法执行所请求的变更，例如停止一个已结束的任务。
	//
	// en-US: Invalid train job status transition
	//
	// zh-CN: 非法的训练任务状态变更
	//
	// zh-HK: 非法的訓練任務狀態變更
	ErrJobInvalidTransition error = CustomError{prefix: errJobPrefix, code: jobInvalidTransition}
	// node_count times process_count disagrees with the declared world size
	//
	// Description: The distributed launch settings are inconsistent. The effective world size must equal node_count multiplied by process_count.
	//
	// Description_ZH: 分布式启动配置不一致。有效的 world size 必须等于 node_count 乘以 process_count。
	//
	// en-US: Distributed world size mismatch
	//
	// zh-CN: 分布式 world size 不匹配
	//
	// zh-HK: 分布式 world size 不匹配
	ErrJobWorldSizeMismatch error = CustomError{prefix: errJobPrefix, code: jobWorldSizeMismatch}
	// submitting the job to the runner failed
	//
	// Description: The runner refused or failed to create the Kubernetes workload for this train job.
	//
	// Description_ZH: Runner 拒绝或未能为该训练任务创建 Kubernetes 工作负载。
	//
	// en-US: Train job submission failed
	//
	// zh-CN: 训练任务提交失败
	//
	// zh-HK: 訓練任務提交失敗
	ErrJobSubmitFailed error = CustomError{prefix: errJobPrefix, code: jobSubmitFailed}
	// the job exceeded its configured run deadline
	//
	// Description: The train job ran longer than the configured timeout and was stopped.
	//
	// Description_ZH: 训练任务运行时间超过配置的超时时间，已被停止。
	//
	// en-US: Train job timed out
	//
	// zh-CN: 训练任务超时
	//
	// zh-HK: 訓練任務超時
	ErrJobTimeout error = CustomError{prefix: errJobPrefix, code: jobTimeout}
	// metrics file missing or unreadable
	//
	// Description: The job finished but its metrics file is missing from the artifact prefix or cannot be parsed.
	//
	// Description_ZH: 任务已结束，但产物目录中缺少指标文件或指标文件无法解析。
	//
	// en-US: Train job metrics unavailable
	//
	// zh-CN: 训练指标不可用
	//
	// zh-HK: 訓練指標不可用
	ErrJobMetricsUnavailable error = CustomError{prefix: errJobPrefix, code: jobMetricsUnavailable}
)

func JobInvalidTransition(err error, ctx context) error {
	return CustomError{
		prefix:  errJobPrefix,
		context: ctx,
		err:     err,
		code:    jobInvalidTransition,
	}
}

func JobSubmitFailed(err error, ctx context) error {
	return CustomError{
		prefix:  errJobPrefix,
		context: ctx,
		err:     err,
		code:    jobSubmitFailed,
	}
}
