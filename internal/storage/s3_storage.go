package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage publishes widget embed assets. Each widget gets a
// versioned script object so owner edits roll out without cache
// invalidation on the embedding pages.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

type PublishedAsset struct {
	Key     string `json:"key"`
	FileURL string `json:"file_url"`
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3Storage {
	var cfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{
				Region: region,
			}
		}
	}

	client := s3.NewFromConfig(cfg)

	return &S3Storage{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// PublishSnippet uploads the embed snippet for a widget under a
// timestamped key and returns its public URL.
func (s *S3Storage) PublishSnippet(ctx context.Context, widgetCode, snippet string) (*PublishedAsset, error) {
	key := fmt.Sprintf("widgets/%s/embed-%d.html", widgetCode, time.Now().Unix())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader([]byte(snippet)),
		ContentType:  aws.String("text/html; charset=utf-8"),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish widget snippet: %w", err)
	}

	return &PublishedAsset{
		Key:     key,
		FileURL: s.fileURL(key),
	}, nil
}

// PublishWidgetConfig uploads the widget's serialized display config
// next to its snippet, under a stable key the embed script can poll.
func (s *S3Storage) PublishWidgetConfig(ctx context.Context, widgetCode string, payload []byte) (*PublishedAsset, error) {
	key := fmt.Sprintf("widgets/%s/config.json", widgetCode)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(payload),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("public, max-age=300"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish widget config: %w", err)
	}

	return &PublishedAsset{
		Key:     key,
		FileURL: s.fileURL(key),
	}, nil
}

func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		// CloudFront or custom domain
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}
