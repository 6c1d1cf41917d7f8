package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"couple-space-backend/internal/apperrors"
	"couple-space-backend/internal/models"
)

const (
	uploadURLExpiry  = 5 * time.Minute
	defaultPhotoPage = 50
	maxPhotoPage     = 100
)

// PhotoStore is the persistence contract the photo service depends on
type PhotoStore interface {
	Create(ctx context.Context, p *models.Photo) error
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	ListByCouple(ctx context.Context, coupleID string, limit, offset int) ([]*models.Photo, int, error)
	UpdateAfterUpload(ctx context.Context, id, s3URL, caption string) error
	Delete(ctx context.Context, id string) error
}

// PhotoService handles the couple photo album backed by S3
type PhotoService struct {
	photos   PhotoStore
	s3Client *s3.Client
	s3Bucket string
	region   string
	now      func() time.Time
}

// NewPhotoService creates a new photo service. When accessKey is set the
// client uses static credentials, otherwise the default chain; endpoint
// overrides the S3 endpoint for S3-compatible storage.
func NewPhotoService(photos PhotoStore, region, bucket, accessKey, secretKey, endpoint string) (*PhotoService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &PhotoService{
		photos:   photos,
		s3Client: s3Client,
		s3Bucket: bucket,
		region:   region,
		now:      time.Now,
	}, nil
}

// UploadResponse represents the response with pre-signed URL
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	PhotoID   string `json:"photo_id"`
	ExpiresIn int    `json:"expires_in"`
}

// GetPreSignedURL generates a pre-signed PUT URL for a new photo and
// records a placeholder row for it
func (s *PhotoService) GetPreSignedURL(ctx context.Context, couple *models.Couple, userID, contentType string) (*UploadResponse, error) {
	if err := requireMember(couple, userID); err != nil {
		return nil, err
	}

	photoID := uuid.New().String()
	s3Key := fmt.Sprintf("%s/%s.jpg", couple.ID, photoID)

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(s3Key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLExpiry
	})
	if err != nil {
		return nil, apperrors.Unavailable("failed to generate pre-signed URL: %v", err)
	}

	now := s.now()
	photo := &models.Photo{
		ID:        photoID,
		CoupleID:  couple.ID,
		UserID:    userID,
		S3Key:     s3Key,
		S3URL:     fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Bucket, s.region, s3Key),
		TakenAt:   now,
		CreatedAt: now,
	}

	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, fmt.Errorf("failed to create photo record: %w", err)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		PhotoID:   photoID,
		ExpiresIn: int(uploadURLExpiry.Seconds()),
	}, nil
}

// ConfirmUpload records the final URL and optional caption once the client
// finished the S3 upload
func (s *PhotoService) ConfirmUpload(ctx context.Context, couple *models.Couple, userID, photoID, s3URL, caption string) error {
	if err := requireMember(couple, userID); err != nil {
		return err
	}
	if s3URL == "" {
		return apperrors.Validation("s3_url is required")
	}

	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("failed to load photo %s: %w", photoID, err)
	}
	if photo.CoupleID != couple.ID {
		return apperrors.NotFound("photo %s", photoID)
	}

	if err := s.photos.UpdateAfterUpload(ctx, photoID, s3URL, caption); err != nil {
		return fmt.Errorf("failed to confirm photo %s: %w", photoID, err)
	}
	return nil
}

// GetPhotosByCouple retrieves the couple's photos with pagination
func (s *PhotoService) GetPhotosByCouple(ctx context.Context, couple *models.Couple, userID string, limit, offset int) ([]*models.Photo, int, error) {
	if err := requireMember(couple, userID); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = defaultPhotoPage
	}
	if limit > maxPhotoPage {
		limit = maxPhotoPage
	}
	if offset < 0 {
		offset = 0
	}

	return s.photos.ListByCouple(ctx, couple.ID, limit, offset)
}

// DeletePhoto removes a photo; only the uploader may delete it. The S3
// object is removed before the row so a partial failure leaves a row that
// can be retried, never an orphaned object.
func (s *PhotoService) DeletePhoto(ctx context.Context, couple *models.Couple, userID, photoID string) error {
	if err := requireMember(couple, userID); err != nil {
		return err
	}

	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("failed to load photo %s: %w", photoID, err)
	}
	if photo.CoupleID != couple.ID {
		return apperrors.NotFound("photo %s", photoID)
	}
	if photo.UserID != userID {
		return apperrors.Validation("only the uploader can delete a photo")
	}

	_, err = s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Bucket),
		Key:    aws.String(photo.S3Key),
	})
	if err != nil {
		return apperrors.Unavailable("failed to delete photo object %s: %v", photo.S3Key, err)
	}

	if err := s.photos.Delete(ctx, photoID); err != nil {
		return fmt.Errorf("failed to delete photo %s: %w", photoID, err)
	}
	return nil
}
