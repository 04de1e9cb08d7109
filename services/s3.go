package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AWSServiceProvider is the object storage used for profile photos and outfit previews.
type AWSServiceProvider interface {
	PresignUpload(ctx context.Context, objectKey string) (string, error)
	PresignRead(ctx context.Context, objectKey string) (string, error)
	Upload(ctx context.Context, objectKey string, content []byte) error
}

// AWSService talks to Cloudflare R2 through the S3 API.
type AWSService struct {
	presignClient *s3.PresignClient
	bucket        string
	httpClient    *http.Client
}

var allowedUploadMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/heic": true,
}

func NewAWSService(ctx context.Context, accountID, accessKeyID, accessKeySecret, bucket string) (*AWSService, error) {
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
		}, nil
	})
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &AWSService{
		presignClient: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		bucket:        bucket,
		httpClient:    &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (s *AWSService) PresignUpload(ctx context.Context, objectKey string) (string, error) {
	request, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return request.URL, nil
}

func (s *AWSService) PresignRead(ctx context.Context, objectKey string) (string, error) {
	request, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(presignedURLExpiration))
	if err != nil {
		return "", fmt.Errorf("failed to presign read: %w", err)
	}
	return request.URL, nil
}

// Upload PUTs content to a freshly presigned URL. Only images are accepted.
func (s *AWSService) Upload(ctx context.Context, objectKey string, content []byte) error {
	mimeType := http.DetectContentType(content)
	if !allowedUploadMimeTypes[mimeType] {
		return fmt.Errorf("unsupported file type: %s", mimeType)
	}
	url, err := s.PresignUpload(ctx, objectKey)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mimeType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", objectKey, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upload %s failed with %d: %s", objectKey, resp.StatusCode, string(body))
	}
	log.Printf("[R2] uploaded %s (%d bytes, %s)", objectKey, len(content), mimeType)
	return nil
}
