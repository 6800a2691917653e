// Package storage issues presigned URLs so clients upload item listing
// images directly to the object store instead of inlining them in the API.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

// ImageStore wraps the S3 client for listing image uploads.
type ImageStore struct {
	presignClient *s3.PresignClient
	bucket        string
	baseURL       string
}

func NewImageStore(client *s3.Client, bucket, baseURL string) *ImageStore {
	return &ImageStore{
		presignClient: s3.NewPresignClient(client),
		bucket:        bucket,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
	}
}

// PresignUpload returns a presigned PUT URL for a fresh object key plus the
// public URL the listing should store once the upload completes.
func (s *ImageStore) PresignUpload(ctx context.Context, userID int64, contentType string) (uploadURL, objectURL string, err error) {
	key := fmt.Sprintf("listings/%d/%s", userID, uuid.New().String())
	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("presigning upload for %s: %w", key, err)
	}
	objectURL = fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key)
	return req.URL, objectURL, nil
}
