package config

import (
	"fmt"
	"strings"

	"github.com/riverflow-io/riverflow/internal/wfcore"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const schemaURL = "https://riverflow.local/schemas/appconfig.schema.json"

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(schemaDocument)); err != nil {
		return nil, fmt.Errorf("appconfig schema load failed: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("appconfig schema compile failed: %w", err)
	}
	return schema, nil
}

// Parse decodes and validates an AppConfig document. It first checks the
// raw decoded document against the JSON Schema (catching unrecognized
// keys and out-of-range values with a precise path), then decodes into
// the strongly-typed AppConfig and checks name uniqueness. Routing
// expressions are kept as source text; compiling them is left to the
// caller (see ToWorkflowComponents), so this package does not depend on
// internal/routing.
func Parse(raw []byte) (AppConfig, error) {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return AppConfig{}, fmt.Errorf("appconfig yaml parse: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return AppConfig{}, err
	}
	if err := schema.Validate(generic); err != nil {
		return AppConfig{}, fmt.Errorf("appconfig schema validation: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("appconfig yaml decode: %w", err)
	}
	if err := validateNames(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// validateNames checks the uniqueness and reserved-name invariants the
// JSON Schema cannot express (spec §3: "name unique across application";
// spec §6: "names outside the reserved set").
func validateNames(cfg AppConfig) error {
	seenRoles := make(map[string]bool, len(cfg.Roles))
	for _, r := range cfg.Roles {
		if seenRoles[r.Name] {
			return fmt.Errorf("duplicate role name %q", r.Name)
		}
		seenRoles[r.Name] = true
	}

	seen := make(map[string]bool, len(cfg.Components))
	for _, c := range cfg.Components {
		if c.Name == wfcore.CoordinatorName || c.Name == wfcore.InvokerName {
			return fmt.Errorf("%w: %q", wfcore.ErrComponentNameReserved, c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate component name %q", c.Name)
		}
		seen[c.Name] = true
		if c.Worker.Role != "" && !seenRoles[c.Worker.Role] {
			return fmt.Errorf("component %q references undefined role %q", c.Name, c.Worker.Role)
		}
	}
	return nil
}

// ToWorkflowComponents converts the parsed config's component
// declarations into the wfcore.Component values the control plane
// operates on. Routing expressions are left uncompiled (wfcore.RoutingRule
// zero value for Expr components); callers that need live expression
// routing compile via internal/routing.CompileExpr and assign
// Component.Routing.Expr themselves, keeping this package independent of
// the CEL runtime.
func ToWorkflowComponents(cfg AppConfig) map[string]wfcore.Component {
	out := make(map[string]wfcore.Component, len(cfg.Components))
	for _, c := range cfg.Components {
		out[c.Name] = wfcore.Component{
			Name: c.Name,
			Kind: wfcore.ComponentKind(c.Kind),
			Worker: wfcore.WorkerSpec{
				Handler:     c.Worker.Handler,
				MemoryMiB:   c.Worker.MemoryMiB,
				TimeoutSecs: c.Worker.TimeoutSecs,
				Role:        c.Worker.Role,
			},
			Routing:          routingRule(c.Routing),
			MaxConcurrency:   c.MaxConcurrency,
			QueueWaitSeconds: c.QueueWaitSeconds,
		}
	}
	return out
}

func routingRule(r RoutingConfig) wfcore.RoutingRule {
	switch {
	case r.Expr != "":
		// Left for the caller to fill in with a compiled closure; see
		// ToWorkflowComponents's doc comment.
		return wfcore.RoutingRule{Kind: wfcore.RoutingExpr}
	case len(r.Many) > 0:
		return wfcore.RouteToMany(r.Many)
	case r.One != "":
		return wfcore.RouteToOne(r.One)
	default:
		return wfcore.NoRouting()
	}
}
