package r2

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// maxListKeys - лимит ключей за одну страницу листинга.
const maxListKeys = 10000

// ObjectStorage определяет интерфейс доступа к объектному хранилищу.
type ObjectStorage interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	ListFolders(ctx context.Context, prefix string) ([]string, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}

// Config содержит параметры подключения к R2.
type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// Client реализует ObjectStorage поверх S3-совместимого API Cloudflare R2.
type Client struct {
	s3     *s3.Client
	bucket string
}

// NewClient создаёт клиент объектного хранилища.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("r2: endpoint and bucket are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("r2: failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		// R2 требует path-style адресацию
		o.UsePathStyle = true
	})

	return &Client{s3: client, bucket: cfg.Bucket}, nil
}

// ListKeys возвращает все ключи объектов с заданным префиксом.
func (c *Client) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(maxListKeys),
	}

	paginator := s3.NewListObjectsV2Paginator(c.s3, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("r2: failed to list objects with prefix %q: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}

	return keys, nil
}

// ListFolders возвращает имена "папок" первого уровня под префиксом
// (через Delimiter/CommonPrefixes).
func (c *Client) ListFolders(ctx context.Context, prefix string) ([]string, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	out, err := c.s3.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(c.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	if err != nil {
		return nil, fmt.Errorf("r2: failed to list folders with prefix %q: %w", prefix, err)
	}

	var folders []string
	for _, cp := range out.CommonPrefixes {
		if cp.Prefix == nil {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(*cp.Prefix, prefix), "/")
		if name != "" {
			folders = append(folders, name)
		}
	}

	return folders, nil
}

// ObjectExists проверяет наличие объекта по ключу. Отсутствие объекта
// не считается ошибкой; ошибки транспорта возвращаются вызывающему.
func (c *Client) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, fmt.Errorf("r2: failed to check object %q: %w", key, err)
	}
	return true, nil
}

// Upload загружает объект в хранилище.
func (c *Client) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	if contentType == "" {
		contentType = "image/jpeg"
	}

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("r2: failed to upload object %q: %w", key, err)
	}

	return nil
}
