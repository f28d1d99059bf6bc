// Package remote resolves an input path that may be local, HTTP(S), or an
// s3:// blob into a local filesystem path the rest of terra8 can open
// directly.
package remote

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

// IsBlob reports whether path names an s3:// object rather than a local
// path or an HTTP(S) URL.
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// Resolve returns a local filesystem path for path: if path already exists
// locally, it is returned unchanged; an http(s):// path is downloaded to a
// temporary file; an s3://bucket/key path is downloaded via the AWS SDK's
// S3 manager, retried with exponential backoff since object-store reads are
// the operation most likely to need one. log, if non-nil, receives a line
// per retry attempt; a nil log is treated as a no-op sink.
func Resolve(ctx context.Context, path string, log *logrus.Entry) (string, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
		log.Logger.SetOutput(ioutil.Discard)
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return downloadHTTP(path)
	}

	if IsBlob(path) {
		return downloadS3(ctx, path, log)
	}

	return path, nil
}

func downloadHTTP(rawurl string) (string, error) {
	dir, err := ioutil.TempDir("", "terra8-remote")
	if err != nil {
		return "", fmt.Errorf("remote: creating temporary download directory: %w", err)
	}
	dest := filepath.Join(dir, filepath.Base(rawurl))

	resp, err := http.Get(rawurl)
	if err != nil {
		return "", fmt.Errorf("remote: fetching %s: %w", rawurl, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("remote: fetching %s: status %s", rawurl, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("remote: creating %s: %w", dest, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("remote: writing %s: %w", dest, err)
	}
	return dest, nil
}

// parseS3 splits an s3://bucket/key path into its bucket and key.
func parseS3(path string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(path, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("remote: malformed s3 path %q", path)
	}
	return parts[0], parts[1], nil
}

func downloadS3(ctx context.Context, path string, log *logrus.Entry) (string, error) {
	bucket, key, err := parseS3(path)
	if err != nil {
		return "", err
	}

	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewEnvCredentials(),
	})
	if err != nil {
		return "", fmt.Errorf("remote: creating AWS session: %w", err)
	}

	dir, err := ioutil.TempDir("", "terra8-remote")
	if err != nil {
		return "", fmt.Errorf("remote: creating temporary download directory: %w", err)
	}
	dest := filepath.Join(dir, filepath.Base(key))

	err = backoff.RetryNotify(
		func() error {
			out, err := os.Create(dest)
			if err != nil {
				return err
			}
			defer out.Close()
			downloader := s3manager.NewDownloader(sess)
			_, err = downloader.DownloadWithContext(ctx, out, &s3.GetObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
			})
			return err
		},
		backoff.NewExponentialBackOff(),
		func(err error, d time.Duration) {
			log.WithFields(logrus.Fields{"path": path, "wait": d}).Warnf("remote: retrying after error: %v", err)
		},
	)
	if err != nil {
		return "", fmt.Errorf("remote: downloading %s: %w", path, err)
	}
	return dest, nil
}
