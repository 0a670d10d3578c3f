// Package s3store provides a store family backed by Amazon S3 or a
// compatible object store. It recognizes the "s3.bucket" identifying
// parameter; namespaces and keys become object key components under an
// optional prefix.
//
// Recognized parameters:
//
//	s3.bucket    - bucket name (identifying, required)
//	s3.prefix    - object key prefix, optional
//	s3.region    - region, defaults to us-east-1
//	s3.endpoint  - custom endpoint for S3-compatible services, optional
//	s3.accessKey - static access key, optional
//	s3.secretKey - static secret key, optional
//
// Without static credentials the default AWS credential chain is used.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/gridforge/gridstore/interfaces"
	"github.com/gridforge/gridstore/stores/kvstore"
	"github.com/gridforge/gridstore/storefamily"
)

// Recognized parameters.
const (
	ParamBucket    = "s3.bucket"
	ParamPrefix    = "s3.prefix"
	ParamRegion    = "s3.region"
	ParamEndpoint  = "s3.endpoint"
	ParamAccessKey = "s3.accessKey"
	ParamSecretKey = "s3.secretKey"
)

const defaultRegion = "us-east-1"

// Family is the registered s3 store family.
var Family = kvstore.NewFamily("s3", ParamBucket, open)

func init() {
	storefamily.Register(Family)
}

func open(ctx context.Context, params map[string]string, log *slog.Logger) (kvstore.KV, error) {
	bucket := params[ParamBucket]
	if bucket == "" {
		return nil, fmt.Errorf("parameter %q must not be empty", ParamBucket)
	}

	region := params[ParamRegion]
	if region == "" {
		region = defaultRegion
	}

	cfg := aws.Config{
		Region: aws.String(region),
	}
	if endpoint := params[ParamEndpoint]; endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}

	accessKey := params[ParamAccessKey]
	secretKey := params[ParamSecretKey]
	if accessKey != "" && secretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	} else {
		log.Debug("No static S3 credentials provided, using default credential chain")
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: creating AWS session: %v", interfaces.ErrStoreUnavailable, err)
	}

	log.Debug("Opened s3 store",
		slog.String("bucket", bucket),
		slog.String("region", region))

	return &s3KV{
		client: s3.New(sess),
		bucket: bucket,
		prefix: strings.Trim(params[ParamPrefix], "/"),
	}, nil
}

type s3KV struct {
	client *s3.S3
	bucket string
	prefix string
}

func (b *s3KV) Put(ctx context.Context, ns kvstore.Namespace, key string, value []byte) error {
	_, err := b.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.objectKey(ns, key)),
		Body:   bytes.NewReader(value),
	})
	if err != nil {
		return fmt.Errorf("%w: putting object: %v", interfaces.ErrStoreUnavailable, err)
	}
	return nil
}

func (b *s3KV) Get(ctx context.Context, ns kvstore.Namespace, key string) ([]byte, error) {
	result, err := b.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.objectKey(ns, key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, interfaces.ErrEntryNotFound
		}
		return nil, fmt.Errorf("%w: getting object: %v", interfaces.ErrStoreUnavailable, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("reading object body: %w", err)
	}
	return data, nil
}

func (b *s3KV) Delete(ctx context.Context, ns kvstore.Namespace, key string) error {
	_, err := b.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.objectKey(ns, key)),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("%w: deleting object: %v", interfaces.ErrStoreUnavailable, err)
	}
	return nil
}

func (b *s3KV) List(ctx context.Context, ns kvstore.Namespace) ([]string, error) {
	nsPrefix := b.objectKey(ns, "")

	var keys []string
	err := b.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(nsPrefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			escaped := strings.TrimPrefix(aws.StringValue(obj.Key), nsPrefix)
			key, err := url.PathUnescape(escaped)
			if err != nil {
				continue
			}
			keys = append(keys, key)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing objects: %v", interfaces.ErrStoreUnavailable, err)
	}
	return keys, nil
}

func (b *s3KV) Close() error {
	return nil
}

func (b *s3KV) objectKey(ns kvstore.Namespace, key string) string {
	parts := make([]string, 0, 3)
	if b.prefix != "" {
		parts = append(parts, b.prefix)
	}
	parts = append(parts, string(ns), url.PathEscape(key))
	return strings.Join(parts, "/")
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}
