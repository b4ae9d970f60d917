package printing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"erpdesk/internal/logger"
)

type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// ArchivingPrinter prints through next and keeps a copy of every output in
// a MinIO bucket.
type ArchivingPrinter struct {
	next    Printer
	objects objectPutter
	bucket  string
	log     *logger.Logger
	now     func() time.Time
}

func NewArchivingPrinter(next Printer, client *minio.Client, bucket string, log *logger.Logger) *ArchivingPrinter {
	return newArchivingPrinter(next, client, bucket, log)
}

func newArchivingPrinter(next Printer, objects objectPutter, bucket string, log *logger.Logger) *ArchivingPrinter {
	return &ArchivingPrinter{
		next:    next,
		objects: objects,
		bucket:  bucket,
		log:     logger.OrNop(log),
		now:     time.Now,
	}
}

// NewMinioClient connects to endpoint and makes sure bucket exists.
func NewMinioClient(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*minio.Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return client, nil
}

// Print returns next's result with Location pointing at the archived copy.
// A failed upload fails the print so the operator sees it.
func (p *ArchivingPrinter) Print(ctx context.Context, page Page) (*Result, error) {
	result, err := p.next.Print(ctx, page)
	if err != nil {
		return nil, err
	}

	object := p.now().UTC().Format("2006/01/02/150405-") + result.Filename
	_, err = p.objects.PutObject(ctx, p.bucket, object, bytes.NewReader(result.Data), int64(len(result.Data)), minio.PutObjectOptions{
		ContentType: result.MimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("archive print output: %w", err)
	}

	result.Location = fmt.Sprintf("minio://%s/%s", p.bucket, object)
	p.log.Infow("print archived", "location", result.Location, "bytes", len(result.Data))
	return result, nil
}
