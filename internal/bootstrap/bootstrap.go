// Package bootstrap wires the production, AWS-backed gateways shared by
// the coordinator, invoker, and worker wrapper Lambda entry points from a
// small set of environment variables. Provisioning itself sits outside
// the core's scope (spec §1); by the time one of these functions runs,
// provisioning has already happened and handed it a bucket name, a
// resource map key, and a bundled application configuration.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/riverflow-io/riverflow/internal/config"
	"github.com/riverflow-io/riverflow/internal/invokegw"
	"github.com/riverflow-io/riverflow/internal/objectgw"
	"github.com/riverflow-io/riverflow/internal/queuegw"
	"github.com/riverflow-io/riverflow/internal/routing"
	"github.com/riverflow-io/riverflow/internal/wfcore"
)

// Gateways bundles the three production gateways every control-plane
// Lambda needs.
type Gateways struct {
	Queues  *queuegw.Gateway
	Objects *objectgw.Gateway
	Invokes *invokegw.Gateway
}

// Env is the runtime configuration read from the Lambda's environment.
type Env struct {
	S3Bucket        string
	ResourceMapKey  string
	ConfirmationKey string
	ConfigPath      string
}

// LoadEnv reads the well-known RIVERFLOW_* environment variables every
// control-plane function is deployed with.
func LoadEnv() (Env, error) {
	bucket := os.Getenv("RIVERFLOW_S3_BUCKET")
	if bucket == "" {
		return Env{}, fmt.Errorf("RIVERFLOW_S3_BUCKET is required")
	}
	configPath := os.Getenv("RIVERFLOW_CONFIG_PATH")
	if configPath == "" {
		return Env{}, fmt.Errorf("RIVERFLOW_CONFIG_PATH is required")
	}
	return Env{
		S3Bucket:        bucket,
		ResourceMapKey:  envOr("RIVERFLOW_RESOURCE_MAP_KEY", "arnMap.json"),
		ConfirmationKey: envOr("RIVERFLOW_CONFIRMATION_KEY", "confirm.txt"),
		ConfigPath:      configPath,
	}, nil
}

// NewGateways loads the default AWS config (credentials, region) from the
// process environment and builds production-backed gateways over it,
// grounded on the client-construction idiom shared by the queuegw/
// objectgw/invokegw backend files.
func NewGateways(ctx context.Context, bucket string) (*Gateways, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &Gateways{
		Queues:  queuegw.New(queuegw.NewSQSBackend(sqs.NewFromConfig(cfg))),
		Objects: objectgw.New(objectgw.NewS3Backend(s3.NewFromConfig(cfg), bucket)),
		Invokes: invokegw.New(invokegw.NewLambdaBackend(lambda.NewFromConfig(cfg))),
	}, nil
}

// LoadComponents reads and validates the application configuration
// bundled alongside the function code, compiles any CEL routing
// expressions, and adds the two reserved internal components
// (Coordinator, Invoker) that never appear in the AppConfig document
// itself (spec §6: "names outside the reserved set").
func LoadComponents(configPath string) (map[string]wfcore.Component, config.AppConfig, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, config.AppConfig{}, fmt.Errorf("reading app config: %w", err)
	}
	cfg, err := config.Parse(raw)
	if err != nil {
		return nil, config.AppConfig{}, fmt.Errorf("parsing app config: %w", err)
	}
	components := config.ToWorkflowComponents(cfg)
	for _, cc := range cfg.Components {
		if cc.Routing.Expr == "" {
			continue
		}
		fn, err := routing.CompileExpr(cc.Routing.Expr)
		if err != nil {
			return nil, config.AppConfig{}, fmt.Errorf("compiling routing expression for %q: %w", cc.Name, err)
		}
		comp := components[cc.Name]
		comp.Routing.Expr = fn
		components[cc.Name] = comp
	}
	components[wfcore.CoordinatorName] = wfcore.Component{Name: wfcore.CoordinatorName, Kind: wfcore.KindInternal}
	components[wfcore.InvokerName] = wfcore.Component{Name: wfcore.InvokerName, Kind: wfcore.KindInternal}
	return components, cfg, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
