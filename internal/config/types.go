// Package config loads and validates the application configuration
// (spec §6): a YAML document with exactly the recognized top-level keys
// name, version, deployId, deployment, coordinator, roles, components.
// It is consumed by cmd/rivulet-ctl, and through internal/bootstrap by
// cmd/rivulet-admin and the Lambda entry points under cmd/; the core
// control-plane packages take their input as already-typed Go values,
// never this raw document, so a validation failure here never reaches
// the coordinator/invoker/wrapper at runtime.
package config

// AppConfig is the fully decoded, schema-validated application
// configuration (spec §6).
type AppConfig struct {
	Name        string             `yaml:"name"`
	Version     string             `yaml:"version"`
	DeployID    string             `yaml:"deployId"`
	Deployment  DeploymentConfig   `yaml:"deployment"`
	Coordinator CoordinatorConfig  `yaml:"coordinator"`
	Roles       []RoleConfig       `yaml:"roles"`
	Components  []ComponentConfig  `yaml:"components"`
}

// DeploymentConfig holds the deployment/provisioning-facing settings —
// out of the core's scope to act on, but recognized and validated
// (spec §1: "the core consumes from them only a validated application
// configuration").
type DeploymentConfig struct {
	Region         string            `yaml:"region"`
	S3Bucket       string            `yaml:"s3Bucket"`
	S3KeyPrefix    string            `yaml:"s3KeyPrefix"`
	Tags           map[string]string `yaml:"tags,omitempty"`
	SwitchoverHook string            `yaml:"switchoverHook,omitempty"`
	SkipBuild      bool              `yaml:"skipBuild,omitempty"`
	SkipDeploy     bool              `yaml:"skipDeploy,omitempty"`
}

// CoordinatorConfig holds the coordinator's tunables (spec §6, §4.7-§4.9).
type CoordinatorConfig struct {
	CoordinatorConcurrency int `yaml:"coordinatorConcurrency"`
	MaxApiConcurrency      int `yaml:"maxApiConcurrency"`
	MaxInvocationCount     int `yaml:"maxInvocationCount"`
	MinInterval            int `yaml:"minInterval"`
}

// RoleConfig is a permission role a worker can be granted (spec §6).
type RoleConfig struct {
	Name   string   `yaml:"name"`
	Policy []string `yaml:"policy,omitempty"`
}

// WorkerConfig is a component's worker function declaration (spec §6).
type WorkerConfig struct {
	Handler     string `yaml:"handler"`
	MemoryMiB   int    `yaml:"memoryMiB"`
	TimeoutSecs int    `yaml:"timeoutSecs"`
	Role        string `yaml:"role"`
}

// RoutingConfig is the raw, not-yet-compiled routing declaration: at
// most one of One/Many/Expr is set, mirroring the YAML document's
// `string | list of strings | expression` union (spec §6, §9).
type RoutingConfig struct {
	One  string   `yaml:"-"`
	Many []string `yaml:"-"`
	Expr string   `yaml:"-"`
}

// ComponentConfig is one named component declaration (spec §6).
type ComponentConfig struct {
	Name             string        `yaml:"name"`
	Kind             string        `yaml:"kind"`
	Worker           WorkerConfig  `yaml:"worker"`
	Routing          RoutingConfig `yaml:"routing,omitempty"`
	MaxConcurrency   int           `yaml:"maxConcurrency,omitempty"`
	QueueWaitSeconds int           `yaml:"queueWaitSeconds,omitempty"`
}
