package errorx

const errModelPrefix = "MDL-ERR"

const (
	modelNotFound = iota
	modelVersionNotFound
	modelJobNotSucceeded
	modelArtifactsMissing
)

var (
	// registered model not found
	//
	// Description: No registered model carries the given name.
	//
	// Description_ZH: 找不到指定名称的注册模型。
	//
	// en-US: Registered model not found
	//
	// zh-CN: 未找到注册模型
	//
	// zh-HK: 未找到註冊模型
	ErrModelNotFound error = CustomError{prefix: errModelPrefix, code: modelNotFound}
	// model version not found
	//
	// Description: The registered model exists but has no version with the requested number.
	//
	// Description_ZH: 注册模型存在，但没有请求编号对应的版本。
	//
	// en-US: Model version not found
	//
	// zh-CN: 未找到模型版本
	//
	// zh-HK: 未找到模型版本
	ErrModelVersionNotFound error = CustomError{prefix: errModelPrefix, code: modelVersionNotFound}
	// models register only from succeeded jobs
	//
	// Description: A model version can only be registered from a train job that finished successfully.
	//
	// Description_ZH: 只能从成功结束的训练任务注册模型版本。
	//
	// en-US: Train job has not succeeded
	//
	// zh-CN: 训练任务未成功结束
	//
	// zh-HK: 訓練任務未成功結束
	ErrModelJobNotSucceeded error = CustomError{prefix: errModelPrefix, code: modelJobNotSucceeded}
	// the job artifact prefix holds no model files
	//
	// Description: The train job finished but wrote no files under its artifact prefix, so there is nothing to register.
	//
	// Description_ZH: 训练任务已结束，但产物目录下没有任何文件，无法注册模型。
	//
	// en-US: Model artifacts missing
	//
	// zh-CN: 缺少模型产物
	//
	// zh-HK: 缺少模型產物
	ErrModelArtifactsMissing error = CustomError{prefix: errModelPrefix, code: modelArtifactsMissing}
)

func ModelArtifactsMissing(err error, ctx context) error {
	return CustomError{
		prefix:  errModelPrefix,
		context: ctx,
		err:     err,
		code:    modelArtifactsMissing,
	}
}
