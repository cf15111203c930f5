package component

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dustin/go-humanize"
	"github.com/minio/minio-go/v7"
	"github.com/spf13/cast"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"tunehub.io/tunehub-server/builder/event"
	"tunehub.io/tunehub-server/builder/parquet"
	"tunehub.io/tunehub-server/builder/store/cache"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/builder/store/s3"
	"tunehub.io/tunehub-server/builder/tokenizer"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

const (
	datasetLockExpiration = 30 * time.Second
	defaultPreviewCount   = 20
)

type DatasetComponent interface {
	// Prepare runs the whole stage: download, tokenize, persist, register.
	// It blocks until the version is Ready or Failed.
	Prepare(ctx context.Context, req types.PrepareDatasetReq) (*types.DatasetVersionRes, error)
	Get(ctx context.Context, name string) (*types.DatasetRes, error)
	List(ctx context.Context, per, page int) ([]types.DatasetRes, int, error)
	GetVersion(ctx context.Context, name string, version int) (*types.DatasetVersionRes, error)
	// LatestReady resolves version 0 to the newest Ready version.
	LatestReady(ctx context.Context, name string) (*types.DatasetVersionRes, error)
	// EnsureReady returns the newest Ready version, preparing one from
	// the dataset's recorded source urls when none exists yet.
	EnsureReady(ctx context.Context, name, model string) (*types.DatasetVersionRes, error)
	ListVersions(ctx context.Context, name string) ([]types.DatasetVersionRes, error)
	Preview(ctx context.Context, name string, version int, split string, count int) (*types.DatasetPreviewRes, error)
}

type datasetComponentImpl struct {
	config       *config.Config
	datasetStore database.DatasetStore
	versionStore database.DatasetVersionStore
	s3Client     s3.Client
	pqWriter     parquet.Writer
	pqReader     parquet.Reader
	goReader     *parquet.ParquetGoReader
	locker       cache.RedisClient
	httpClient   *http.Client
}

func NewDatasetComponent(ctx context.Context, config *config.Config) (DatasetComponent, error) {
	s3Client, err := s3.NewMinio(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	pqWriter, err := parquet.NewS3Writer(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pqReader, err := parquet.NewS3Reader(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	locker, err := cache.NewCache(ctx, cache.RedisConfig{
		Addr:         config.Redis.Endpoint,
		Username:     config.Redis.User,
		Password:     config.Redis.Password,
		MaxRetries:   config.Redis.MaxRetries,
		MinIdleConns: config.Redis.MinIdleConnections,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis locker: %w", err)
	}
	return &datasetComponentImpl{
		config:       config,
		datasetStore: database.NewDatasetStore(),
		versionStore: database.NewDatasetVersionStore(),
		s3Client:     s3Client,
		pqWriter:     pqWriter,
		pqReader:     pqReader,
		goReader: parquet.NewParquetGoReader(
			parquet.NewMinIOClient(s3Client),
			otel.Tracer("component.dataset"),
			config.S3.Bucket,
		),
		locker: locker,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Dataset.DownloadTimeoutInSEC) * time.Second,
		},
	}, nil
}

func (c *datasetComponentImpl) Prepare(ctx context.Context, req types.PrepareDatasetReq) (*types.DatasetVersionRes, error) {
	if req.MaxSequenceLength == 0 {
		req.MaxSequenceLength = c.config.Dataset.MaxSequenceLength
	}

	dataset, err := c.datasetStore.ByName(ctx, req.Name)
	if err != nil {
		if !errors.Is(err, errorx.ErrNotFound) {
			return nil, err
		}
		dataset, err = c.datasetStore.Create(ctx, database.Dataset{
			Name:       req.Name,
			Task:       req.Task,
			SourceURLs: req.SourceURLs,
			VocabURL:   req.VocabURL,
		})
		if err != nil && !errors.Is(err, errorx.ErrDatabaseDuplicateKey) {
			return nil, fmt.Errorf("failed to create dataset %s: %w", req.Name, err)
		}
		if errors.Is(err, errorx.ErrDatabaseDuplicateKey) {
			dataset, err = c.datasetStore.ByName(ctx, req.Name)
			if err != nil {
				return nil, err
			}
		}
	}

	var dv database.DatasetVersion
	err = c.locker.WaitLockToRun(ctx, "dataset:version:"+req.Name, datasetLockExpiration, func(ctx context.Context) error {
		version, err := c.datasetStore.NextVersion(ctx, req.Name)
		if err != nil {
			return err
		}
		dv, err = c.versionStore.Create(ctx, database.DatasetVersion{
			DatasetID:         dataset.ID,
			Version:           version,
			Status:            types.DatasetVersionPreparing,
			Model:             req.Model,
			MaxSequenceLength: req.MaxSequenceLength,
			StoragePrefix:     fmt.Sprintf("datasets/%s/v%d", req.Name, version),
			Metadata:          req.Metadata,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to allocate dataset version for %s: %w", req.Name, err)
	}
	dv.Dataset = &dataset

	if err := c.prepareVersion(ctx, req, &dv); err != nil {
		if merr := c.versionStore.MarkFailed(ctx, dv.ID, err.Error()); merr != nil {
			slog.ErrorContext(ctx, "failed to mark dataset version failed", slog.Any("error", merr))
		}
		return nil, err
	}

	c.publishVersionEvent(ctx, &dv)
	res := toVersionRes(dv)
	return &res, nil
}

func (c *datasetComponentImpl) EnsureReady(ctx context.Context, name, model string) (*types.DatasetVersionRes, error) {
	dv, err := c.LatestReady(ctx, name)
	if err == nil {
		return dv, nil
	}
	if !errors.Is(err, errorx.ErrNotFound) {
		return nil, err
	}

	dataset, err := c.datasetStore.ByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(dataset.SourceURLs) == 0 {
		return nil, errorx.DatasetBadFormat(
			fmt.Errorf("dataset %s has no ready version and no recorded source urls to prepare one", name),
			errorx.Ctx().Set("dataset", name),
		)
	}
	return c.Prepare(ctx, types.PrepareDatasetReq{
		Name:       name,
		Task:       dataset.Task,
		SourceURLs: dataset.SourceURLs,
		Model:      model,
		VocabURL:   dataset.VocabURL,
	})
}

// prepareVersion does the heavy lifting between the Preparing and Ready
// states: stage raw files, tokenize every split concurrently, convert the
// tokenized shards to parquet and record the manifests.
func (c *datasetComponentImpl) prepareVersion(ctx context.Context, req types.PrepareDatasetReq, dv *database.DatasetVersion) error {
	workDir := filepath.Join(c.config.Dataset.DataDir, req.Name, fmt.Sprintf("v%d", dv.Version))
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	vocab, err := c.loadVocabulary(ctx, req)
	if err != nil {
		return errorx.TokenizeFailed(err, errorx.Ctx().Set("dataset", req.Name))
	}
	dv.VocabFingerprint = vocab.Fingerprint()

	splits := make(map[string]types.DatasetSplitRes, len(req.SourceURLs))
	var totalBytes int64

	splitNames := make([]string, 0, len(req.SourceURLs))
	for split := range req.SourceURLs {
		splitNames = append(splitNames, split)
	}
	sort.Strings(splitNames)

	for _, split := range splitNames {
		rawPath := filepath.Join(workDir, split+".raw")
		if err := c.download(ctx, req.SourceURLs[split], rawPath); err != nil {
			return errorx.DownloadFailed(err, errorx.Ctx().Set("dataset", req.Name).Set("split", split))
		}

		records, err := c.tokenizeSplit(ctx, rawPath, split, vocab, dv.MaxSequenceLength)
		if err != nil {
			return errorx.TokenizeFailed(err, errorx.Ctx().Set("dataset", req.Name).Set("split", split))
		}

		manifest, err := c.persistSplit(ctx, dv.StoragePrefix, split, records)
		if err != nil {
			return err
		}
		splits[split] = *manifest
		totalBytes += manifest.SizeBytes
	}

	dv.Splits = splits
	dv.SizeBytes = totalBytes
	dv.Status = types.DatasetVersionReady
	_, err = c.versionStore.Update(ctx, *dv)
	return err
}

// download fetches one source file with bounded retries and a sustained
// byte-rate budget, enforcing the configured size ceiling.
func (c *datasetComponentImpl) download(ctx context.Context, url, destPath string) error {
	limit := rate.Limit(c.config.Dataset.DownloadRateLimitMB * 1024 * 1024)
	limiter := rate.NewLimiter(limit, int(limit))

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %s fetching %s", resp.Status, url)
			}
			if resp.ContentLength > c.config.Dataset.MaxDownloadSizeBytes {
				return retry.Unrecoverable(fmt.Errorf("source file is %s, limit is %s",
					humanize.IBytes(uint64(resp.ContentLength)),
					humanize.IBytes(uint64(c.config.Dataset.MaxDownloadSizeBytes))))
			}

			out, err := os.Create(destPath)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			defer out.Close()

			limited := io.LimitReader(resp.Body, c.config.Dataset.MaxDownloadSizeBytes+1)
			written, err := io.Copy(out, &rateLimitedReader{r: limited, limiter: limiter, ctx: ctx})
			if err != nil {
				return err
			}
			if written > c.config.Dataset.MaxDownloadSizeBytes {
				return retry.Unrecoverable(fmt.Errorf("source file exceeds the %s limit",
					humanize.IBytes(uint64(c.config.Dataset.MaxDownloadSizeBytes))))
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.Context(ctx),
	)
}

type rateLimitedReader struct {
	r       io.Reader
	limiter *rate.Limiter
	ctx     context.Context
}

func (r *rateLimitedReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		if werr := r.limiter.WaitN(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

// rawRecord is one line of a staged source file: single sentences or
// sentence pairs with an integer-coercible label.
type rawRecord struct {
	Sentence  string `json:"sentence"`
	Sentence2 string `json:"sentence2,omitempty"`
	Label     any    `json:"label"`
	Idx       any    `json:"idx,omitempty"`
}

// tokenizeSplit reads the raw jsonl file and encodes it shard by shard,
// fanning the shards out over the configured worker count.
func (c *datasetComponentImpl) tokenizeSplit(ctx context.Context, rawPath, split string, vocab *tokenizer.Vocab, maxSeqLen int) ([][]types.TokenizedRecord, error) {
	f, err := os.Open(rawPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var shards [][]rawRecord
	var current []rawRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		lineNo++
		if len(line) == 0 {
			continue
		}
		var rec rawRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, errorx.DatasetBadFormat(
				fmt.Errorf("line %d of split %s: %w", lineNo, split, err), nil)
		}
		current = append(current, rec)
		if len(current) == c.config.Dataset.RowsPerShard {
			shards = append(shards, current)
			current = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(current) > 0 {
		shards = append(shards, current)
	}

	encoded := make([][]types.TokenizedRecord, len(shards))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Dataset.TokenizeWorkers)
	base := int64(0)
	for i, shard := range shards {
		offset := base
		base += int64(len(shard))
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			wp := tokenizer.NewWordPiece(vocab, maxSeqLen)
			out := make([]types.TokenizedRecord, 0, len(shard))
			for j, rec := range shard {
				var enc tokenizer.Encoding
				if rec.Sentence2 != "" {
					enc = wp.EncodePair(rec.Sentence, rec.Sentence2)
				} else {
					enc = wp.Encode(rec.Sentence)
				}
				idx := cast.ToInt64(rec.Idx)
				if rec.Idx == nil {
					idx = offset + int64(j)
				}
				out = append(out, types.TokenizedRecord{
					InputIDs:      enc.InputIDs,
					AttentionMask: enc.AttentionMask,
					TokenTypeIDs:  enc.TokenTypeIDs,
					Label:         cast.ToInt64(rec.Label),
					Idx:           idx,
					Split:         split,
				})
			}
			encoded[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return encoded, nil
}

// persistSplit uploads the tokenized shards as jsonl, converts them to
// parquet in place and returns the split manifest. The staging jsonl
// objects are removed once the parquet copy exists.
func (c *datasetComponentImpl) persistSplit(ctx context.Context, storagePrefix, split string, shards [][]types.TokenizedRecord) (*types.DatasetSplitRes, error) {
	bucket := c.config.S3.Bucket
	stagingObjs := make([]string, 0, len(shards))
	var rowCount int64

	for i, shard := range shards {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		for _, rec := range shard {
			if err := enc.Encode(rec); err != nil {
				return nil, err
			}
		}
		objName := fmt.Sprintf("%s/staging/%s/shard-%05d.jsonl", storagePrefix, split, i)
		if _, err := c.s3Client.UploadAndValidate(ctx, bucket, objName, &buf, int64(buf.Len())); err != nil {
			return nil, fmt.Errorf("failed to upload shard %s: %w", objName, err)
		}
		stagingObjs = append(stagingObjs, fmt.Sprintf("'s3://%s/%s'", bucket, objName))
		rowCount += int64(len(shard))
	}
	if len(stagingObjs) == 0 {
		return nil, errorx.DatasetBadFormat(fmt.Errorf("split %s has no rows", split), nil)
	}

	parquetPath := fmt.Sprintf("s3://%s/%s/%s", bucket, storagePrefix, split)
	err := c.pqWriter.ConvertToParquet(ctx, "read_json_auto", stagingObjs,
		c.config.Dataset.MaxThreadNumOfExport, parquetPath)
	if err != nil {
		return nil, errorx.NoValidParquetFile(err, errorx.Ctx().Set("split", split))
	}

	// staged rows round-trip into the parquet footers or the version fails
	persisted, err := c.pqReader.RowCount(fmt.Sprintf("%s/%s/*.parquet", storagePrefix, split))
	if err != nil {
		return nil, errorx.NoValidParquetFile(err, errorx.Ctx().Set("split", split))
	}
	if int64(persisted) != rowCount {
		return nil, errorx.NoValidParquetFile(
			fmt.Errorf("split %s persisted %d of %d rows", split, persisted, rowCount), nil)
	}

	files, sizeBytes := c.listSplitFiles(ctx, storagePrefix, split)

	for _, obj := range stagingObjs {
		name := objectNameFromDuckDBPath(obj, bucket)
		if err := c.s3Client.RemoveObject(ctx, bucket, name, minio.RemoveObjectOptions{}); err != nil {
			slog.WarnContext(ctx, "failed to remove staging shard", slog.String("object", name), slog.Any("error", err))
		}
	}

	return &types.DatasetSplitRes{
		Name:      split,
		Files:     files,
		RowCount:  rowCount,
		SizeBytes: sizeBytes,
		Size:      humanize.IBytes(uint64(sizeBytes)),
	}, nil
}

func (c *datasetComponentImpl) listSplitFiles(ctx context.Context, storagePrefix, split string) ([]string, int64) {
	var files []string
	var sizeBytes int64
	prefix := fmt.Sprintf("%s/%s/", storagePrefix, split)
	for obj := range c.s3Client.ListObjects(ctx, c.config.S3.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			slog.WarnContext(ctx, "failed to list split objects", slog.Any("error", obj.Err))
			continue
		}
		files = append(files, obj.Key)
		sizeBytes += obj.Size
	}
	sort.Strings(files)
	return files, sizeBytes
}

func objectNameFromDuckDBPath(quoted, bucket string) string {
	name := quoted
	name = trimQuotes(name)
	return name[len("s3://"+bucket+"/"):]
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

// loadVocabulary fetches (or reuses) the vocabulary file of the pretrained
// model and loads it; the fingerprint recorded on the version comes from
// the loaded content.
func (c *datasetComponentImpl) loadVocabulary(ctx context.Context, req types.PrepareDatasetReq) (*tokenizer.Vocab, error) {
	if err := os.MkdirAll(c.config.Dataset.VocabCacheDir, 0o755); err != nil {
		return nil, err
	}
	vocabPath := filepath.Join(c.config.Dataset.VocabCacheDir, req.Model+".txt")
	if _, err := os.Stat(vocabPath); err != nil {
		if req.VocabURL == "" {
			return nil, fmt.Errorf("no cached vocabulary for model %s and no vocab_url given", req.Model)
		}
		if err := os.MkdirAll(filepath.Dir(vocabPath), 0o755); err != nil {
			return nil, err
		}
		if err := c.download(ctx, req.VocabURL, vocabPath); err != nil {
			return nil, fmt.Errorf("failed to download vocabulary: %w", err)
		}
	}
	return tokenizer.LoadVocab(vocabPath)
}

func (c *datasetComponentImpl) publishVersionEvent(ctx context.Context, dv *database.DatasetVersion) {
	payload, err := json.Marshal(map[string]any{
		"dataset": dv.Dataset.Name,
		"version": dv.Version,
		"status":  dv.Status,
	})
	if err != nil {
		return
	}
	if err := event.DefaultEventPublisher.PublishDatasetEvent(payload); err != nil {
		slog.ErrorContext(ctx, "failed to publish dataset event",
			slog.Any("error", err), slog.String("dataset", dv.Dataset.Name))
	}
}

func (c *datasetComponentImpl) Get(ctx context.Context, name string) (*types.DatasetRes, error) {
	dataset, err := c.datasetStore.ByName(ctx, name)
	if err != nil {
		return nil, err
	}
	res := toDatasetRes(dataset)
	return &res, nil
}

func (c *datasetComponentImpl) List(ctx context.Context, per, page int) ([]types.DatasetRes, int, error) {
	datasets, total, err := c.datasetStore.List(ctx, per, page)
	if err != nil {
		return nil, 0, err
	}
	res := make([]types.DatasetRes, 0, len(datasets))
	for _, dataset := range datasets {
		res = append(res, toDatasetRes(dataset))
	}
	return res, total, nil
}

func (c *datasetComponentImpl) GetVersion(ctx context.Context, name string, version int) (*types.DatasetVersionRes, error) {
	dv, err := c.versionStore.ByNameAndVersion(ctx, name, version)
	if err != nil {
		return nil, err
	}
	res := toVersionRes(*dv)
	return &res, nil
}

func (c *datasetComponentImpl) LatestReady(ctx context.Context, name string) (*types.DatasetVersionRes, error) {
	dv, err := c.versionStore.LatestReady(ctx, name)
	if err != nil {
		return nil, err
	}
	res := toVersionRes(*dv)
	return &res, nil
}

func (c *datasetComponentImpl) ListVersions(ctx context.Context, name string) ([]types.DatasetVersionRes, error) {
	dataset, err := c.datasetStore.ByName(ctx, name)
	if err != nil {
		return nil, err
	}
	versions, err := c.versionStore.ListByDatasetID(ctx, dataset.ID)
	if err != nil {
		return nil, err
	}
	res := make([]types.DatasetVersionRes, 0, len(versions))
	for _, dv := range versions {
		dv.Dataset = &dataset
		res = append(res, toVersionRes(dv))
	}
	return res, nil
}

// Preview reads the top rows with the pure-Go parquet reader and the exact
// total from the parquet footers via duckdb.
func (c *datasetComponentImpl) Preview(ctx context.Context, name string, version int, split string, count int) (*types.DatasetPreviewRes, error) {
	if count <= 0 {
		count = defaultPreviewCount
	}
	dv, err := c.versionStore.ByNameAndVersion(ctx, name, version)
	if err != nil {
		return nil, err
	}
	if dv.Status != types.DatasetVersionReady {
		return nil, errorx.NoValidParquetFile(
			fmt.Errorf("dataset %s v%d is %s", name, version, dv.Status),
			errorx.Ctx().Set("dataset", name),
		)
	}
	manifest, ok := dv.Splits[split]
	if !ok {
		return nil, errorx.ReqParamInvalid(
			fmt.Errorf("dataset %s v%d has no split %q", name, version, split), nil)
	}

	columns, columnTypes, rows, _, err := c.goReader.RowsWithCount(ctx, manifest.Files, int64(count), 0)
	if err != nil {
		return nil, errorx.NoValidParquetFile(err, errorx.Ctx().Set("dataset", name).Set("split", split))
	}
	total, err := c.pqReader.RowCount(fmt.Sprintf("%s/%s/*.parquet", dv.StoragePrefix, split))
	if err != nil {
		return nil, errorx.NoValidParquetFile(err, errorx.Ctx().Set("dataset", name).Set("split", split))
	}

	return &types.DatasetPreviewRes{
		Columns:     columns,
		ColumnTypes: columnTypes,
		Rows:        rows,
		Total:       int64(total),
	}, nil
}

func toDatasetRes(dataset database.Dataset) types.DatasetRes {
	return types.DatasetRes{
		ID:            dataset.ID,
		Name:          dataset.Name,
		Task:          dataset.Task,
		LatestVersion: dataset.LatestVersion,
		CreatedAt:     dataset.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     dataset.UpdatedAt.Format(time.RFC3339),
	}
}

func toVersionRes(dv database.DatasetVersion) types.DatasetVersionRes {
	res := types.DatasetVersionRes{
		ID:                dv.ID,
		Version:           dv.Version,
		Status:            dv.Status,
		StoragePrefix:     dv.StoragePrefix,
		Model:             dv.Model,
		VocabFingerprint:  dv.VocabFingerprint,
		MaxSequenceLength: dv.MaxSequenceLength,
		Metadata:          dv.Metadata,
		Message:           dv.Message,
		CreatedAt:         dv.CreatedAt.Format(time.RFC3339),
	}
	if dv.Dataset != nil {
		res.DatasetName = dv.Dataset.Name
	}
	// canonical splits first, then whatever custom names the source
	// document used, so no stored manifest goes missing
	canonical := []string{types.SplitTrain, types.SplitValidation, types.SplitTest}
	seen := make(map[string]bool, len(canonical))
	for _, split := range canonical {
		if manifest, ok := dv.Splits[split]; ok {
			res.Splits = append(res.Splits, manifest)
			seen[split] = true
		}
	}
	var extras []string
	for split := range dv.Splits {
		if !seen[split] {
			extras = append(extras, split)
		}
	}
	sort.Strings(extras)
	for _, split := range extras {
		res.Splits = append(res.Splits, dv.Splits[split])
	}
	return res
}
