// Command coordinator is the Lambda entry point for the Coordinator
// (spec §4.7): a single-purpose main wiring production gateways and
// running one coordinator pass per invocation, grounded on the teacher's
// cmd/flowd/main.go (a small main that builds its dependencies directly
// and runs the engine once).
package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/riverflow-io/riverflow/internal/bootstrap"
	"github.com/riverflow-io/riverflow/internal/coordinator"
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
	components, cfg, err := bootstrap.LoadComponents(env.ConfigPath)
	if err != nil {
		panic(err)
	}

	loader := resourcemap.New(gw.Objects)
	coord := coordinator.New(
		loader,
		env.ResourceMapKey,
		env.ConfirmationKey,
		components,
		gw.Queues,
		gw.Objects,
		gw.Invokes,
		cfg.Coordinator.CoordinatorConcurrency,
		cfg.Coordinator.MaxApiConcurrency,
		cfg.Coordinator.MaxInvocationCount,
		time.Duration(cfg.Coordinator.MinInterval)*time.Second,
	)

	lambda.Start(func(ctx context.Context, event wfcore.CoordinatorEvent) (wfcore.ApplicationStatus, error) {
		var status wfcore.ApplicationStatus
		var runErr error
		coord.Run(ctx, event, func(err error, s wfcore.ApplicationStatus) {
			runErr, status = err, s
		})
		return status, runErr
	})
}
