// Package storage is the downloaded-audio cache behind the playback URLs:
// local disk by default, an S3-compatible Spaces bucket when configured. The
// whole cache is disposable and is wiped nightly by the retention sweeper.
package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
)

// Storage is the audio cache backend.
type Storage interface {
	// Save stores the stream under name and returns the public URL.
	Save(name string, r io.Reader) (string, error)
	// Exists reports whether name is already cached.
	Exists(name string) bool
	// URL returns the public URL for a cached name.
	URL(name string) string
	// Clear wipes the whole cache.
	Clear() error
}

// LocalStorage keeps cached audio on disk, served under publicPrefix by the
// HTTP layer.
type LocalStorage struct {
	cacheDir     string
	publicPrefix string
}

func NewLocalStorage(cacheDir, publicPrefix string) *LocalStorage {
	return &LocalStorage{cacheDir: cacheDir, publicPrefix: strings.TrimSuffix(publicPrefix, "/")}
}

func (ls *LocalStorage) Dir() string { return ls.cacheDir }

func (ls *LocalStorage) Save(name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(ls.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	// Names are pre-sanitized by the caller; basename guards against any
	// path segment sneaking through.
	name = filepath.Base(name)
	path := filepath.Join(ls.cacheDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write cache file: %w", err)
	}
	return ls.URL(name), nil
}

func (ls *LocalStorage) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(ls.cacheDir, filepath.Base(name)))
	return err == nil
}

func (ls *LocalStorage) URL(name string) string {
	return ls.publicPrefix + "/" + filepath.Base(name)
}

func (ls *LocalStorage) Clear() error {
	if err := os.RemoveAll(ls.cacheDir); err != nil {
		return err
	}
	return os.MkdirAll(ls.cacheDir, 0o755)
}

// SpacesStorage caches audio in an S3-compatible bucket fronted by a CDN.
type SpacesStorage struct {
	client *s3.S3
	bucket string
	cdnURL string
	prefix string
}

func NewSpacesStorage(endpoint, region, bucket, cdnURL, accessKey, secretKey string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SpacesStorage{
		client: s3.New(sess),
		bucket: bucket,
		cdnURL: strings.TrimSuffix(cdnURL, "/"),
		prefix: "audio-cache",
	}, nil
}

func (ss *SpacesStorage) key(name string) string {
	return ss.prefix + "/" + filepath.Base(name)
}

func (ss *SpacesStorage) Save(name string, r io.Reader) (string, error) {
	// PutObject needs a seekable body; cached tracks are a few MB, so
	// buffering is acceptable.
	buf, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to buffer audio stream: %w", err)
	}

	_, err = ss.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(ss.key(name)),
		Body:        bytes.NewReader(buf),
		ContentType: aws.String("audio/mpeg"),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("[storage] failed to upload audio to Spaces")
		return "", fmt.Errorf("failed to upload to Spaces: %w", err)
	}
	return ss.URL(name), nil
}

func (ss *SpacesStorage) Exists(name string) bool {
	_, err := ss.client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(ss.key(name)),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == "NotFound" {
			return false
		}
		log.Warn().Err(err).Str("name", name).Msg("[storage] head object failed")
		return false
	}
	return true
}

func (ss *SpacesStorage) URL(name string) string {
	return fmt.Sprintf("%s/%s", ss.cdnURL, ss.key(name))
}

func (ss *SpacesStorage) Clear() error {
	listed, err := ss.client.ListObjectsV2(&s3.ListObjectsV2Input{
		Bucket: aws.String(ss.bucket),
		Prefix: aws.String(ss.prefix + "/"),
	})
	if err != nil {
		return fmt.Errorf("failed to list cached audio: %w", err)
	}
	if len(listed.Contents) == 0 {
		return nil
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(listed.Contents))
	for _, obj := range listed.Contents {
		objects = append(objects, &s3.ObjectIdentifier{Key: obj.Key})
	}
	_, err = ss.client.DeleteObjects(&s3.DeleteObjectsInput{
		Bucket: aws.String(ss.bucket),
		Delete: &s3.Delete{Objects: objects},
	})
	if err != nil {
		return fmt.Errorf("failed to delete cached audio: %w", err)
	}
	return nil
}
