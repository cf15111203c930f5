package errorx

const errPipelinePrefix = "PIP-ERR"

const (
	pipelineRunNotFound = iota
	pipelineSettingsInvalid
	pipelineWorkflowStartFailed
	pipelineStageFailed
)

var (
	// pipeline run not found
	//
	// Description: No pipeline run is recorded under the given id.
	//
	// Description_ZH: 找不到指定 ID 对应的流水线运行记录。
	//
	// en-US: Pipeline run not found
	//
	// zh-CN: 未找到流水线运行
	//
	// zh-HK: 未找到流水線運行
	ErrPipelineRunNotFound error = CustomError{prefix: errPipelinePrefix, code: pipelineRunNotFound}
	// settings document failed validation
	//
	// Description: The submitted settings document is malformed, carries unknown keys, or fails a validation rule.
	//
	// Description_ZH: 提交的配置文档格式错误、包含未知键或未通过校验规则。
	//
	// en-US: Pipeline settings invalid
	//
	// zh-CN: 流水线配置无效
	//
	// zh-HK: 流水線配置無效
	ErrPipelineSettingsInvalid error = CustomError{prefix: errPipelinePrefix, code: pipelineSettingsInvalid}
	// the workflow engine refused the run
	//
	// Description: Starting the pipeline workflow failed. A run with the same id may still be executing.
	//
	// Description_ZH: 启动流水线工作流失败。可能有相同 ID 的运行仍在执行中。
	//
	// en-US: Pipeline workflow start failed
	//
	// zh-CN: 流水线工作流启动失败
	//
	// zh-HK: 流水線工作流啟動失敗
	ErrPipelineWorkflowStartFailed error = CustomError{prefix: errPipelinePrefix, code: pipelineWorkflowStartFailed}
	// a pipeline stage failed
	//
	// Description: One of the pipeline stages failed. The run record carries the failing stage name and message.
	//
	// Description_ZH: 流水线的某个阶段执行失败。运行记录中包含失败阶段的名称与信息。
	//
	// en-US: Pipeline stage failed
	//
	// zh-CN: 流水线阶段失败
	//
	// zh-HK: 流水線階段失敗
	ErrPipelineStageFailed error = CustomError{prefix: errPipelinePrefix, code: pipelineStageFailed}
)

func PipelineSettingsInvalid(err error, ctx context) error {
	return CustomError{
		prefix:  errPipelinePrefix,
		context: ctx,
		err:     err,
		code:    pipelineSettingsInvalid,
	}
}

func PipelineStageFailed(err error, ctx context) error {
	return CustomError{
		prefix:  errPipelinePrefix,
		context: ctx,
		err:     err,
		code:    pipelineStageFailed,
	}
}
