package s3

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/sha256-simd"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"tunehub.io/tunehub-server/common/config"
)

const (
	// content addressed uploads are staged here until the digest checks out
	S3_TMP_DIR         = "sources/tmp/"
	MINIO_PUT_PARALLEL = 5
	MINIO_PART_SIZE    = 5 << 20
)

var bucketLookupMapping = map[string]minio.BucketLookupType{
	"auto": minio.BucketLookupAuto,
	"dns":  minio.BucketLookupDNS,
	"path": minio.BucketLookupPath,
}

var tracer trace.Tracer

func init() {
	tracer = otel.Tracer("builder.store.s3")
}

type MinioClient interface {
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64,
		opts minio.PutObjectOptions,
	) (info minio.UploadInfo, err error)
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (u *url.URL, err error)
	PresignHeader(ctx context.Context, method, bucketName, objectName string, expires time.Duration, reqParams url.Values, extraHeaders http.Header) (u *url.URL, err error)
	CopyObject(ctx context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

type Client interface {
	MinioClient
	UploadAndValidate(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64) (minio.UploadInfo, error)
}

// uploadAndValidate stages the object in the tmp dir, checks size and
// sha256 against the digest embedded in the object key, then copies it
// into place. Keys outside sources/ are uploaded as is.
func uploadAndValidate(ctx context.Context, client MinioClient, bucketName, objectName string, reader io.Reader, objectSize int64) (minio.UploadInfo, error) {
	var rawName, tmpName, digest string
	ctx, span := tracer.Start(ctx, "s3.UploadAndValidate")
	defer span.End()
	span.SetAttributes(attribute.Int64("size", objectSize))

	h := sha256.New()
	reader = io.TeeReader(reader, h)
	if strings.HasPrefix(objectName, "sources/") {
		rawName = strings.TrimPrefix(objectName, "sources/")
		tmpName = S3_TMP_DIR + rawName
		digest = strings.Join(strings.Split(rawName, "/"), "")
	} else {
		tmpName = objectName
	}

	// upload to tmp dir
	info, err := client.PutObject(ctx, bucketName, tmpName, reader, objectSize, minio.PutObjectOptions{
		ContentType:           "application/octet-stream",
		SendContentMd5:        true,
		ConcurrentStreamParts: true,
		NumThreads:            MINIO_PUT_PARALLEL,
		PartSize:              MINIO_PART_SIZE,
	})
	span.AddEvent("put object to tmp bucket done")
	if err != nil {
		return info, err
	}

	if digest == "" {
		return info, nil
	}

	defer func() {
		err := client.RemoveObject(ctx, bucketName, tmpName, minio.RemoveObjectOptions{})
		if err != nil {
			slog.Error("minio remove file failed", slog.Any("error", err))
		}
	}()

	if info.Size != objectSize {
		err := fmt.Errorf("SourceBundle: expected size %d, got %d", objectSize, info.Size)
		return minio.UploadInfo{}, err
	}
	checksum := hex.EncodeToString(h.Sum(nil))
	if !bytes.Equal([]byte(checksum), []byte(digest)) {
		err := fmt.Errorf("SourceBundle: expected sha256 %s, got %s", digest, checksum)
		return minio.UploadInfo{}, err
	}
	span.AddEvent("validate checksum done")

	return client.CopyObject(ctx, minio.CopyDestOptions{
		Bucket: bucketName,
		Object: objectName,
	}, minio.CopySrcOptions{
		Bucket: bucketName,
		Object: tmpName,
	})
}

type minioClient struct {
	*minio.Client
	internalClient *minio.Client
}

func NewMinio(cfg *config.Config) (Client, error) {
	var bucketLookupType minio.BucketLookupType
	if val, ok := bucketLookupMapping[cfg.S3.BucketLookup]; ok {
		bucketLookupType = val
	} else {
		bucketLookupType = minio.BucketLookupAuto
	}
	mClient, err := minio.New(cfg.S3.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.S3.AccessKeyID, cfg.S3.AccessKeySecret, ""),
		Secure:       cfg.S3.EnableSSL,
		BucketLookup: bucketLookupType,
		Region:       cfg.S3.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init s3 client, error:%w", err)
	}
	client := &minioClient{
		Client: mClient,
	}
	if len(cfg.S3.InternalEndpoint) > 0 {
		minioClientInternal, err := minio.New(cfg.S3.InternalEndpoint, &minio.Options{
			Creds:        credentials.NewStaticV4(cfg.S3.AccessKeyID, cfg.S3.AccessKeySecret, ""),
			Secure:       cfg.S3.EnableSSL,
			BucketLookup: bucketLookupType,
			Region:       cfg.S3.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init s3 internal client, error:%w", err)
		}
		client.internalClient = minioClientInternal
	}
	return client, nil
}

func (c *minioClient) UploadAndValidate(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64) (minio.UploadInfo, error) {
	return uploadAndValidate(ctx, c.Client, bucketName, objectName, reader, objectSize)
}

// PresignedGetObject is a wrapper around minio.Client.PresignedGetObject that adds some extra customization.
func (c *minioClient) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	if c.useInternalClient(ctx) && c.internalClient != nil {
		slog.Info("use internal s3 client for presigned get object", slog.String("bucket_name", bucketName), slog.String("object_name", objectName))
		return c.internalClient.PresignedGetObject(ctx, bucketName, objectName, expires, reqParams)
	}
	return c.Client.PresignedGetObject(ctx, bucketName, objectName, expires, reqParams)
}

func (c *minioClient) useInternalClient(ctx context.Context) bool {
	v, success := ctx.Value("X-TUNEHUB-S3-Internal").(bool)
	if !success {
		return false
	}

	return v
}
