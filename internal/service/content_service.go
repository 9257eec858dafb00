package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"app/internal/cache"
	"app/internal/model"
	"app/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ContentService serves the read side of the content library plus export.
type ContentService interface {
	List(ctx context.Context, accountID string, limit, offset int) ([]model.ContentItem, error)
	Get(ctx context.Context, contentID, accountID string) (*model.ContentItem, error)
	Delete(ctx context.Context, contentID, accountID string) error
	// Export writes the item and its variants to object storage and returns
	// a presigned download URL.
	Export(ctx context.Context, contentID, accountID string) (string, error)
}

type contentService struct {
	content  repository.ContentRepository
	views    *cache.Cache
	s3Client *s3.Client
	bucket   string
	urlTTL   time.Duration
	logger   zerolog.Logger
}

// NewContentService creates a ContentService. s3Client may be nil when no
// object storage is configured; Export then reports storage unavailable.
func NewContentService(
	content repository.ContentRepository,
	views *cache.Cache,
	s3Client *s3.Client,
	bucket string,
	urlTTL time.Duration,
	logger zerolog.Logger,
) ContentService {
	return &contentService{
		content:  content,
		views:    views,
		s3Client: s3Client,
		bucket:   bucket,
		urlTTL:   urlTTL,
		logger:   logger.With().Str("service", "ContentService").Logger(),
	}
}

func (s *contentService) List(ctx context.Context, accountID string, limit, offset int) ([]model.ContentItem, error) {
	return s.content.ListContent(ctx, accountID, limit, offset)
}

func (s *contentService) Get(ctx context.Context, contentID, accountID string) (*model.ContentItem, error) {
	return s.content.GetContent(ctx, contentID, accountID)
}

func (s *contentService) Delete(ctx context.Context, contentID, accountID string) error {
	if err := s.content.DeleteContent(ctx, contentID, accountID); err != nil {
		return err
	}
	s.views.InvalidateAccount(accountID)
	return nil
}

func (s *contentService) Export(ctx context.Context, contentID, accountID string) (string, error) {
	if s.s3Client == nil {
		return "", fmt.Errorf("content export: %w", ErrStorageNotReady)
	}

	item, err := s.content.GetContent(ctx, contentID, accountID)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export for content %s: %w", contentID, err)
	}

	key := fmt.Sprintf("exports/%s/%s-%s.json", accountID, item.ID, uuid.NewString())
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload export for content %s: %w", contentID, err)
	}

	presigner := s3.NewPresignClient(s.s3Client)
	presigned, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.urlTTL))
	if err != nil {
		return "", fmt.Errorf("presign export for content %s: %w", contentID, err)
	}
	s.logger.Info().Str("content_id", contentID).Str("key", key).Msg("Content exported")
	return presigned.URL, nil
}
