package objectstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/config"
)

// S3Signer issues presigned S3 PUT URLs.
type S3Signer struct {
	client s3iface.S3API
	bucket string
	now    func() time.Time
	logger *slog.Logger
}

// Ensure S3Signer implements UploadURLSigner
var _ UploadURLSigner = (*S3Signer)(nil)

// NewS3Signer creates an S3Signer from attachment configuration. It opens
// its own AWS session using the default credential chain.
func NewS3Signer(cfg config.AttachmentsConfig, logger *slog.Logger) (*S3Signer, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Signer{
		client: s3.New(sess),
		bucket: cfg.Bucket,
		now:    time.Now,
		logger: logger.With("component", "s3_signer"),
	}, nil
}

// SignUploadURL presigns a PUT for a new JPEG attachment under the task's
// key prefix.
func (s *S3Signer) SignUploadURL(_ context.Context, taskID uuid.UUID) (UploadTarget, error) {
	now := s.now()
	key := attachmentKey(taskID, now)

	req, _ := s.client.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String("image/jpeg"),
	})

	url, err := req.Presign(UploadURLLifetime)
	if err != nil {
		s.logger.Error("failed to presign upload URL",
			"error", err,
			"task_id", taskID,
			"key", key)
		return UploadTarget{}, fmt.Errorf("failed to presign upload URL: %w", err)
	}

	s.logger.Debug("presigned upload URL",
		"task_id", taskID,
		"key", key)

	return UploadTarget{
		URL:       url,
		Key:       key,
		ExpiresAt: now.Add(UploadURLLifetime),
	}, nil
}
