package errorx

const errEnvPrefix = "ENV-ERR"

const (
	environmentNotFound = iota
	dockerfileEmpty
	dockerfileTooLarge
	environmentBuildFailed
	environmentBuildNotFound
)

var (
	// environment not found
	//
	// Description: The named container environment is not registered. Register it with a Dockerfile before referencing it from a job.
	//
	// Description_ZH: 指定名称的容器环境未注册。请先使用 Dockerfile 注册该环境，再在任务中引用。
	//
	// en-US: Environment not found
	//
	// zh-CN: 未找到容器环境
	//
	// zh-HK: 未找到容器環境
	ErrEnvironmentNotFound error = CustomError{prefix: errEnvPrefix, code: environmentNotFound}
	// dockerfile content is empty
	//
	// Description: The environment definition must carry a non-empty Dockerfile.
	//
	// Description_ZH: 环境定义必须包含非空的 Dockerfile。
	//
	// en-US: Dockerfile is empty
	//
	// zh-CN: Dockerfile 为空
	//
	// zh-HK: Dockerfile 為空
	ErrDockerfileEmpty error = CustomError{prefix: errEnvPrefix, code: dockerfileEmpty}
	// dockerfile exceeds the configured size limit
	//
	// Description: The Dockerfile is larger than the configured maximum. Move large assets into the image build context or a base image.
	//
	// Description_ZH: Dockerfile 超过配置的大小上限。请将大文件移入构建上下文或基础镜像。
	//
	// en-US: Dockerfile too large
	//
	// zh-CN: Dockerfile 过大
	//
	// zh-HK: Dockerfile 過大
	ErrDockerfileTooLarge error = CustomError{prefix: errEnvPrefix, code: dockerfileTooLarge}
	// image build failed
	//
	// Description: The container image build for this environment version failed. Inspect the build log for the failing instruction.
	//
	// Description_ZH: 该环境版本的镜像构建失败。请查看构建日志定位失败的指令。
	//
	// en-US: Environment build failed
	//
	// zh-CN: 环境构建失败
	//
	// zh-HK: 環境構建失敗
	ErrEnvironmentBuildFailed error = CustomError{prefix: errEnvPrefix, code: environmentBuildFailed}
	// build record not found
	//
	// Description: No build is recorded for the given build id.
	//
	// Description_ZH: 找不到指定构建 ID 对应的构建记录。
	//
	// en-US: Environment build not found
	//
	// zh-CN: 未找到构建记录
	//
	// zh-HK: 未找到構建記錄
	ErrEnvironmentBuildNotFound error = CustomError{prefix: errEnvPrefix, code: environmentBuildNotFound}
)

func EnvironmentBuildFailed(err error, ctx context) error {
	return CustomError{
		prefix:  errEnvPrefix,
		context: ctx,
		err:     err,
		code:    environmentBuildFailed,
	}
}
