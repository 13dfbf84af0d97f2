package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// ObjectPutter is the part of the S3 client the archiver needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ExportArchiver uploads snapshots of the exports to object storage
type ExportArchiver struct {
	feedback IFeedbackService
	client   ObjectPutter
	bucket   string
	prefix   string
	now      func() time.Time
}

func NewExportArchiver(feedback IFeedbackService, client ObjectPutter, bucket, prefix string) *ExportArchiver {
	return &ExportArchiver{
		feedback: feedback,
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		now:      time.Now,
	}
}

// Archive exports version in format and uploads it, returning the object key
func (a *ExportArchiver) Archive(ctx context.Context, version, format string) (string, error) {
	items, err := a.feedback.ExportAll(ctx, version)
	if err != nil {
		return "", err
	}

	var (
		body        []byte
		contentType string
	)
	switch format {
	case FormatText:
		body = []byte(ExportText(items))
		contentType = "text/plain; charset=utf-8"
	case FormatJSON:
		body, err = json.Marshal(ExportJSON(items))
		if err != nil {
			return "", errors.Wrap(err, "encoding export")
		}
		contentType = "application/json"
	default:
		return "", errors.Errorf("unknown export format %q", format)
	}

	key := a.objectKey(version, format)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrapf(err, "uploading %s", key)
	}

	grip.Info(message.Fields{
		"message":  "export archived",
		"bucket":   a.bucket,
		"key":      key,
		"messages": len(items),
		"bytes":    len(body),
	})
	return key, nil
}

func (a *ExportArchiver) objectKey(version, format string) string {
	prefix := a.prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return fmt.Sprintf("%sfeedback-%s-%s-%s.%s",
		prefix, version, a.now().UTC().Format("20060102T150405Z"), uuid.NewString()[:8], format)
}
