package queuegw

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSBackend implements Backend over Amazon SQS, grounded on the AWS
// SDK v2 client-construction idiom used throughout the pack's
// artifacts/s3_store.go for S3.
type SQSBackend struct {
	client *sqs.Client
}

// NewSQSBackend wraps an existing SQS client. Queue URLs (not ARNs) are
// expected as the `queue` argument everywhere in this package; the
// ResourceMap is responsible for handing out the right identifier.
func NewSQSBackend(client *sqs.Client) *SQSBackend {
	return &SQSBackend{client: client}
}

func (b *SQSBackend) Send(ctx context.Context, queue string, body string) error {
	_, err := b.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queue),
		MessageBody: aws.String(body),
	})
	return err
}

func (b *SQSBackend) ReceiveOne(ctx context.Context, queue string, visibilityTimeout, waitTime time.Duration) (*Message, error) {
	out, err := b.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(queue),
		MaxNumberOfMessages: 1,
		VisibilityTimeout:   int32(visibilityTimeout.Seconds()),
		WaitTimeSeconds:     int32(waitTime.Seconds()),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Messages) == 0 {
		return nil, nil
	}
	m := out.Messages[0]
	return &Message{Body: aws.ToString(m.Body), Receipt: aws.ToString(m.ReceiptHandle)}, nil
}

func (b *SQSBackend) Delete(ctx context.Context, queue string, receipt string) error {
	_, err := b.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queue),
		ReceiptHandle: aws.String(receipt),
	})
	return err
}

func (b *SQSBackend) ApproximateDepth(ctx context.Context, queue string) (int, error) {
	out, err := b.client.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl: aws.String(queue),
		AttributeNames: []types.QueueAttributeName{
			types.QueueAttributeNameApproximateNumberOfMessages,
			types.QueueAttributeNameApproximateNumberOfMessagesNotVisible,
		},
	})
	if err != nil {
		return 0, err
	}
	visible := parseIntAttr(out.Attributes, string(types.QueueAttributeNameApproximateNumberOfMessages))
	inFlight := parseIntAttr(out.Attributes, string(types.QueueAttributeNameApproximateNumberOfMessagesNotVisible))
	return visible + inFlight, nil
}

func parseIntAttr(attrs map[string]string, key string) int {
	v, ok := attrs[key]
	if !ok {
		return 0
	}
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
