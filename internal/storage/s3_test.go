package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubFactories(t *testing.T) *s3.Options {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject

	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	var captured s3.Options

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}

		assert.Equal(t, "eu-south-2", lo.Region)

		return aws.Config{}, nil
	}

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&captured)
		}

		return &s3.Client{}
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}

	return &captured
}

func TestNewS3_AppliesEndpoint(t *testing.T) {
	opts := stubFactories(t)

	s, err := NewS3(context.Background(), Config{
		Endpoint: "http://127.0.0.1:9000",
		Region:   "eu-south-2",
		Bucket:   "archdesk",
	})
	require.NoError(t, err)

	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, 15*time.Minute, s.expiry)
}

func TestNewS3_LoadError(t *testing.T) {
	stubFactories(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := NewS3(context.Background(), Config{Region: "eu-south-2"})
	assert.ErrorContains(t, err, "load-fail")
}

func TestS3_Presign(t *testing.T) {
	stubFactories(t)

	s, err := NewS3(context.Background(), Config{Region: "eu-south-2", Bucket: "archdesk", Expiry: time.Minute})
	require.NoError(t, err)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "archdesk", *in.Bucket)
		assert.Equal(t, "projects/p/documents/d/f", *in.Key)

		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, time.Minute, po.Expires)

		return &v4.PresignedHTTPRequest{URL: "https://put"}, nil
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("denied")
	}

	url, err := s.PresignUpload(context.Background(), "projects/p/documents/d/f")
	require.NoError(t, err)
	assert.Equal(t, "https://put", url)

	_, err = s.PresignDownload(context.Background(), "k")
	assert.ErrorContains(t, err, "denied")
}
