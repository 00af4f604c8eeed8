package workbook

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// fetchFromS3 downloads s3://bucket/key to a temp file and returns its
// path plus a cleanup func. Used when the workbook lives in object storage
// instead of on local disk.
func fetchFromS3(ctx context.Context, uri string) (string, func(), error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return "", nil, err
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	downloader := manager.NewDownloader(client)

	tmp, err := os.CreateTemp("", "workbook-*.xlsx")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}

	if _, err := downloader.Download(ctx, tmp, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to download s3://%s/%s: %w", bucket, key, err)
	}

	return tmp.Name(), cleanup, nil
}

func parseS3URI(uri string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 URI: %s", uri)
	}
	return parts[0], parts[1], nil
}
