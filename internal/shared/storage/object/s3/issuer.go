package s3

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"userprefs-backend/internal/shared/storage/object"
)

const defaultExpires = time.Hour

// Options configures an Issuer.
type Options struct {
	Bucket string
	// Endpoint overrides the S3 endpoint (MinIO, LocalStack). Path-style
	// addressing is used whenever it is set.
	Endpoint string
	Expires  time.Duration
}

// Issuer implements object.Issuer on top of S3 presigned URLs.
type Issuer struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	expires time.Duration
	now     func() time.Time
}

// NewFromConfig builds an Issuer from an already loaded AWS config.
func NewFromConfig(cfg aws.Config, opts Options) (*Issuer, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	expires := opts.Expires
	if expires <= 0 {
		expires = defaultExpires
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &Issuer{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		expires: expires,
		now:     time.Now,
	}, nil
}

// PresignUpload returns a PUT URL bound to the given content type.
func (i *Issuer) PresignUpload(ctx context.Context, key, contentType string) (object.Grant, error) {
	issuedAt := i.now()
	out, err := i.presign.PresignPutObject(ctx, putInput(i.bucket, key, contentType), i.withExpiry, signContentType(contentType))
	if err != nil {
		return object.Grant{}, fmt.Errorf("s3 presign put bucket=%s key=%s: %w", i.bucket, key, err)
	}
	return object.Grant{
		URL:       out.URL,
		Method:    http.MethodPut,
		Key:       key,
		ExpiresAt: issuedAt.Add(i.expires),
	}, nil
}

// PresignDownload returns a GET URL for the object.
func (i *Issuer) PresignDownload(ctx context.Context, key string) (object.Grant, error) {
	issuedAt := i.now()
	out, err := i.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(i.bucket),
		Key:    aws.String(key),
	}, i.withExpiry)
	if err != nil {
		return object.Grant{}, fmt.Errorf("s3 presign get bucket=%s key=%s: %w", i.bucket, key, err)
	}
	return object.Grant{
		URL:       out.URL,
		Method:    http.MethodGet,
		Key:       key,
		ExpiresAt: issuedAt.Add(i.expires),
	}, nil
}

// Delete removes the object. S3 reports success for keys that do not exist.
func (i *Issuer) Delete(ctx context.Context, key string) error {
	if _, err := i.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(i.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("s3 delete object bucket=%s key=%s: %w", i.bucket, key, err)
	}
	return nil
}

func (i *Issuer) withExpiry(opts *s3.PresignOptions) {
	opts.Expires = i.expires
}

// signContentType puts Content-Type back on the request after the presign
// stack strips it from the empty body, so the header is part of the
// signature and uploads must send the same value.
func signContentType(contentType string) func(*s3.PresignOptions) {
	return func(opts *s3.PresignOptions) {
		opts.ClientOptions = append(opts.ClientOptions, func(o *s3.Options) {
			o.APIOptions = append(o.APIOptions, func(stack *middleware.Stack) error {
				return stack.Build.Add(middleware.BuildMiddlewareFunc("SignContentType",
					func(ctx context.Context, in middleware.BuildInput, next middleware.BuildHandler) (middleware.BuildOutput, middleware.Metadata, error) {
						if req, ok := in.Request.(*smithyhttp.Request); ok {
							req.Header.Set("Content-Type", contentType)
						}
						return next.HandleBuild(ctx, in)
					}), middleware.After)
			})
		})
	}
}

func putInput(bucket, key, contentType string) *s3.PutObjectInput {
	return &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}
}

var _ object.Issuer = (*Issuer)(nil)
