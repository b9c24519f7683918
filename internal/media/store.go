package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/campusfest/eventhub-api/internal/config"
	"github.com/campusfest/eventhub-api/internal/domain"
)

// sniffLen is how many leading bytes are inspected to detect the file type.
const sniffLen = 3072

var (
	ErrNotAnImage = errors.New("uploaded file is not an image")
	ErrForeignURL = errors.New("url does not belong to this store")
)

// ObjectClient is the subset of the minio client used by the store.
type ObjectClient interface {
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
}

// MinioStore uploads event images to a MinIO/S3 bucket and hands back their
// public URL.
type MinioStore struct {
	client  ObjectClient
	bucket  string
	folder  string
	baseURL string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(conf *config.MediaConfig) (*MinioStore, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio.New -> %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, conf.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.BucketExists -> %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("client.MakeBucket -> %w", err)
		}
	}

	return NewStore(client, conf), nil
}

// NewStore builds a store around an existing client.
func NewStore(client ObjectClient, conf *config.MediaConfig) *MinioStore {
	baseURL := conf.PublicURL
	if baseURL == "" {
		scheme := "http"
		if conf.UseSSL {
			scheme = "https"
		}
		baseURL = scheme + "://" + conf.Endpoint
	}

	return &MinioStore{
		client:  client,
		bucket:  conf.Bucket,
		folder:  strings.Trim(conf.Folder, "/"),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload stores the image under a random key and returns its URL. Files that
// do not sniff as image/* are rejected with ErrNotAnImage before anything is
// sent.
func (m *MinioStore) Upload(ctx context.Context, image domain.ImageUpload) (string, error) {
	br := bufio.NewReaderSize(image.Content, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("br.Peek -> %w", err)
	}

	mtype := mimetype.Detect(head)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotAnImage, mtype.String())
	}

	key := m.objectKey(mtype.Extension())
	_, err = m.client.PutObject(ctx, m.bucket, key, br, image.Size, minio.PutObjectOptions{
		ContentType: mtype.String(),
		UserMetadata: map[string]string{
			"original-name": path.Base(image.Filename),
		},
	})
	if err != nil {
		return "", fmt.Errorf("m.client.PutObject -> %w", err)
	}

	return m.objectURL(key), nil
}

// Remove deletes an object previously returned by Upload.
func (m *MinioStore) Remove(ctx context.Context, objectURL string) error {
	key, ok := strings.CutPrefix(objectURL, m.objectURL(""))
	if !ok || key == "" {
		return fmt.Errorf("%w: %s", ErrForeignURL, objectURL)
	}

	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("m.client.RemoveObject -> %w", err)
	}

	return nil
}

func (m *MinioStore) objectKey(ext string) string {
	name := uuid.NewString() + ext
	if m.folder == "" {
		return name
	}
	return m.folder + "/" + name
}

func (m *MinioStore) objectURL(key string) string {
	return m.baseURL + "/" + url.PathEscape(m.bucket) + "/" + key
}
