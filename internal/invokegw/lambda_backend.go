package invokegw

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// LambdaBackend implements Backend over AWS Lambda, using the same
// client-construction idiom as the SQS and S3 backends (grounded on
// pkg/artifacts/s3_store.go).
type LambdaBackend struct {
	client *lambda.Client
}

// NewLambdaBackend wraps an existing Lambda client.
func NewLambdaBackend(client *lambda.Client) *LambdaBackend {
	return &LambdaBackend{client: client}
}

func (b *LambdaBackend) InvokeAsync(ctx context.Context, function string, payload []byte) error {
	_, err := b.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(function),
		InvocationType: types.InvocationTypeEvent,
		Payload:        payload,
	})
	return err
}
