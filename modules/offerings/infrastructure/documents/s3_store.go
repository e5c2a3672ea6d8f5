package documents

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gerrors "github.com/go-faster/errors"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/configuration"
)

// s3Client is the subset of the S3 API the store needs; tests swap it.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3DocumentStore keeps rendered receipt documents in S3-compatible
// storage, keyed by receipt code and revision.
type S3DocumentStore struct {
	client s3Client
	bucket string
}

func NewS3DocumentStore(opts configuration.DocumentStoreOptions) *S3DocumentStore {
	clientOpts := s3.Options{
		Region:       opts.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		UsePathStyle: true,
	}
	if opts.Endpoint != "" {
		clientOpts.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return &S3DocumentStore{client: s3.New(clientOpts), bucket: opts.Bucket}
}

func (s *S3DocumentStore) Put(ctx context.Context, receiptCode string, revision int, body []byte) (string, error) {
	key := fmt.Sprintf("receipts/%s/%d.txt", receiptCode, revision)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", gerrors.Wrap(err, "store receipt document")
	}
	return key, nil
}

func (s *S3DocumentStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return gerrors.Wrap(err, "delete receipt document")
	}
	return nil
}
