// Command invoker is the Lambda entry point for the Invoker (spec §4.10):
// the pure fan-out amplifier the Coordinator calls when a bin of work is
// too large for one invocation's own API-call budget, grounded on the
// same single-purpose main style as
// cmd/coordinator.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/riverflow-io/riverflow/internal/bootstrap"
	"github.com/riverflow-io/riverflow/internal/invoker"
	"github.com/riverflow-io/riverflow/internal/resourcemap"
	"github.com/riverflow-io/riverflow/internal/wfcore"
)

func main() {
	ctx := context.Background()

	env, err := bootstrap.LoadEnv()
	if err != nil {
		panic(err)
	}
	gw, err := bootstrap.NewGateways(ctx, env.S3Bucket)
	if err != nil {
		panic(err)
	}
	_, cfg, err := bootstrap.LoadComponents(env.ConfigPath)
	if err != nil {
		panic(err)
	}

	loader := resourcemap.New(gw.Objects)
	inv := invoker.New(loader, env.ResourceMapKey, gw.Queues, gw.Invokes, cfg.Coordinator.MaxApiConcurrency)

	lambda.Start(func(ctx context.Context, event invoker.Event) ([]wfcore.InvocationCount, error) {
		var components []wfcore.InvocationCount
		var runErr error
		inv.Run(ctx, event, func(err error, c []wfcore.InvocationCount) {
			runErr, components = err, c
		})
		return components, runErr
	})
}
