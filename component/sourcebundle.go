package component

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/minio/sha256-simd"
	ignore "github.com/sabhiram/go-gitignore"

	"tunehub.io/tunehub-server/common/errorx"
)

// patterns never shipped with a source bundle, on top of the directory's
// own ignore file
var bundleExcludes = []string{
	".git/**",
	"**/__pycache__/**",
	"**/*.pyc",
	"**/.ipynb_checkpoints/**",
	"**/.DS_Store",
}

const bundleIgnoreFile = ".gitignore"

// PackageSource tars and gzips the source directory and uploads the bundle
// under sources/. The directory's ignore file and the built-in exclude
// patterns decide what ships.
func (c *trainJobComponentImpl) PackageSource(ctx context.Context, sourceDir, jobName string) (string, error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return "", errorx.ReqParamInvalid(
			fmt.Errorf("source directory %s: %w", sourceDir, err), nil)
	}
	if !info.IsDir() {
		return "", errorx.ReqParamInvalid(
			fmt.Errorf("source path %s is not a directory", sourceDir), nil)
	}

	var matcher *ignore.GitIgnore
	if raw, err := os.ReadFile(filepath.Join(sourceDir, bundleIgnoreFile)); err == nil {
		matcher = ignore.CompileIgnoreLines(splitLines(string(raw))...)
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	err = filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		for _, pattern := range bundleExcludes {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if matcher != nil && matcher.MatchesPath(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		hdr, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to package source directory: %w", err)
	}
	if err := tw.Close(); err != nil {
		return "", err
	}
	if err := gw.Close(); err != nil {
		return "", err
	}

	// bundles are content addressed: the key's path segments joined
	// together are the sha256 the upload is validated against
	digest := sha256.Sum256(buf.Bytes())
	sum := hex.EncodeToString(digest[:])
	objName := fmt.Sprintf("sources/%s/%s", sum[:2], sum[2:])
	size := buf.Len()
	if _, err := c.s3Client.UploadAndValidate(ctx, c.config.S3.Bucket, objName, &buf, int64(size)); err != nil {
		return "", fmt.Errorf("failed to upload source bundle: %w", err)
	}
	slog.InfoContext(ctx, "uploaded source bundle",
		slog.String("job_name", jobName),
		slog.String("object", objName),
		slog.String("size", humanize.IBytes(uint64(size))))
	return objName, nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
