package types

type DatasetVersionStatus string

const (
	DatasetVersionPreparing DatasetVersionStatus = "Preparing"
	DatasetVersionReady     DatasetVersionStatus = "Ready"
	DatasetVersionFailed    DatasetVersionStatus = "Failed"
)

// splits every prepared dataset version carries
const (
	SplitTrain      = "train"
	SplitValidation = "validation"
	SplitTest       = "test"
)

type PrepareDatasetReq struct {
	Name string `json:"name" binding:"required"`
	Task string `json:"task" binding:"required"`
	// where the raw files come from; one URL per split
	SourceURLs map[string]string `json:"source_urls" binding:"required"`
	// tokenizer side: pretrained model whose vocabulary is used
	Model             string `json:"model" binding:"required"`
	VocabURL          string `json:"vocab_url"`
	MaxSequenceLength int    `json:"max_sequence_length"`
	// free-form tags recorded on the registered version
	Metadata map[string]string `json:"metadata,omitempty"`
}

type DatasetRes struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Task          string `json:"task"`
	LatestVersion int    `json:"latest_version"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type DatasetVersionRes struct {
	ID          int64                `json:"id"`
	DatasetName string               `json:"dataset_name"`
	Version     int                  `json:"version"`
	Status      DatasetVersionStatus `json:"status"`
	// object storage prefix the split shards live under
	StoragePrefix string            `json:"storage_prefix"`
	Splits        []DatasetSplitRes `json:"splits"`
	// tokenizer provenance
	Model             string            `json:"model"`
	VocabFingerprint  string            `json:"vocab_fingerprint"`
	MaxSequenceLength int               `json:"max_sequence_length"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	Message           string            `json:"message,omitempty"`
	CreatedAt         string            `json:"created_at"`
}

type DatasetSplitRes struct {
	Name      string   `json:"name"`
	Files     []string `json:"files"`
	RowCount  int64    `json:"row_count"`
	SizeBytes int64    `json:"size_bytes"`
	// human readable size, for listings
	Size string `json:"size"`
}

// DatasetPreviewRes carries the top rows of one split, straight out of the
// stored parquet shards.
type DatasetPreviewRes struct {
	Columns     []string `json:"columns"`
	ColumnTypes []string `json:"column_types"`
	Rows        [][]any  `json:"rows"`
	Total       int64    `json:"total"`
}

// TokenizedRecord is one row of a tokenized split as persisted to shards.
type TokenizedRecord struct {
	InputIDs      []int64 `json:"input_ids"`
	AttentionMask []int64 `json:"attention_mask"`
	TokenTypeIDs  []int64 `json:"token_type_ids,omitempty"`
	Label         int64   `json:"label"`
	Idx           int64   `json:"idx"`
	Split         string  `json:"-"`
}
