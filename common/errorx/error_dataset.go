package errorx

const errDataSetPrefix = "DAT-ERR"

const (
	datasetNotFound = iota
	datasetVersionNotFound
	datasetBadFormat
	noValidParquetFile
	downloadTooLarge
	downloadFailed
	tokenizeFailed
)

var (
	// dataset not found
	//
	// Description: The named dataset is not registered in the workspace.
	//
	// Description_ZH: 指定名称的数据集未在工作区中注册。
	//
	// en-US: Dataset not found
	//
	// zh-CN: 未找到数据集
	//
	// zh-HK: 未找到數據集
	ErrDatasetNotFound error = CustomError{prefix: errDataSetPrefix, code: datasetNotFound}
	// dataset version not found
	//
	// Description: The dataset exists but carries no version with the requested number.
	//
	// Description_ZH: 数据集存在，但没有请求编号对应的版本。
	//
	// en-US: Dataset version not found
	//
	// zh-CN: 未找到数据集版本
	//
	// zh-HK: 未找到數據集版本
	ErrDatasetVersionNotFound error = CustomError{prefix: errDataSetPrefix, code: datasetVersionNotFound}
	// dataset has a bad format
	//
	// Description: The downloaded or specified dataset is not in a valid or expected format. Please check the file structure and data types.
	//
	// Description_ZH: 下载或指定的数据集格式无效或不符合预期。请检查文件结构和数据类型。
	//
	// en-US: Dataset format is invalid
	//
	// zh-CN: 数据集格式错误
	//
	// zh-HK: 數據集格式錯誤
	ErrDatasetBadFormat error = CustomError{prefix: errDataSetPrefix, code: datasetBadFormat}
	// no valid parquet file found in the dataset
	//
	// Description: The dataset version does not contain any valid Parquet files, which are required for this operation.
	//
	// Description_ZH: 数据集版本中不包含任何有效的 Parquet 文件，而此操作需要该文件格式。
	//
	// en-US: No valid Parquet file found
	//
	// zh-CN: 未找到有效的 Parquet 文件
	//
	// zh-HK: 未找到有效的 Parquet 檔案
	ErrNoValidParquetFile error = CustomError{prefix: errDataSetPrefix, code: noValidParquetFile}
	// source file exceeds the download size limit
	//
	// Description: A source file reported a content length above the configured download limit, so the download was refused.
	//
	// Description_ZH: 源文件的大小超过配置的下载上限，下载被拒绝。
	//
	// en-US: Source file too large to download
	//
	// zh-CN: 源文件过大，无法下载
	//
	// zh-HK: 源檔案過大，無法下載
	ErrDownloadTooLarge error = CustomError{prefix: errDataSetPrefix, code: downloadTooLarge}
	// source download failed after retries
	//
	// Description: Downloading a dataset source file kept failing after the configured retries. Check the source url and network reachability.
	//
	// Description_ZH: 数据集源文件在多次重试后仍下载失败。请检查源地址和网络连通性。
	//
	// en-US: Dataset download failed
	//
	// zh-CN: 数据集下载失败
	//
	// zh-HK: 數據集下載失敗
	ErrDownloadFailed error = CustomError{prefix: errDataSetPrefix, code: downloadFailed}
	// tokenization failed
	//
	// Description: Tokenizing the dataset with the pretrained vocabulary failed. The vocabulary may not match the model or a record may be malformed.
	//
	// Description_ZH: 使用预训练词表对数据集分词失败。词表可能与模型不匹配，或存在异常记录。
	//
	// en-US: Dataset tokenization failed
	//
	// zh-CN: 数据集分词失败
	//
	// zh-HK: 數據集分詞失敗
	ErrTokenizeFailed error = CustomError{prefix: errDataSetPrefix, code: tokenizeFailed}
)

func DatasetBadFormat(err error, ctx context) error {
	return CustomError{
		prefix:  errDataSetPrefix,
		context: ctx,
		err:     err,
		code:    datasetBadFormat,
	}
}

func NoValidParquetFile(err error, ctx context) error {
	return CustomError{
		prefix:  errDataSetPrefix,
		context: ctx,
		err:     err,
		code:    noValidParquetFile,
	}
}

func DownloadFailed(err error, ctx context) error {
	return CustomError{
		prefix:  errDataSetPrefix,
		context: ctx,
		err:     err,
		code:    downloadFailed,
	}
}

func TokenizeFailed(err error, ctx context) error {
	return CustomError{
		prefix:  errDataSetPrefix,
		context: ctx,
		err:     err,
		code:    tokenizeFailed,
	}
}
