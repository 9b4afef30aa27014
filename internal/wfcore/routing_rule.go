package wfcore

// RoutingRuleKind tags which variant a RoutingRule holds (spec §9 design
// note: "tagged variant Routing = None | One(name) | Many([name]) |
// Expr(fn)").
type RoutingRuleKind int

const (
	RoutingNone RoutingRuleKind = iota
	RoutingOne
	RoutingMany
	RoutingExpr
)

// RoutingExprFunc is a compiled routing expression: given the worker's
// error and result, it produces zero or more route pairs. Implementations
// are backed by a compiled CEL program (internal/routing).
type RoutingExprFunc func(workerErr error, result map[string]any) ([]RoutePair, error)

// RoutingRule is the tagged union describing how a component's result is
// routed downstream (spec §3).
type RoutingRule struct {
	Kind  RoutingRuleKind
	One   string
	Many  []string
	Expr  RoutingExprFunc
}

// NoRouting is the zero-value "route nowhere" rule.
func NoRouting() RoutingRule { return RoutingRule{Kind: RoutingNone} }

// RouteToOne routes to a single named component.
func RouteToOne(name string) RoutingRule { return RoutingRule{Kind: RoutingOne, One: name} }

// RouteToMany routes to a list of named components.
func RouteToMany(names []string) RoutingRule { return RoutingRule{Kind: RoutingMany, Many: names} }

// RouteByExpr routes using a compiled expression.
func RouteByExpr(fn RoutingExprFunc) RoutingRule { return RoutingRule{Kind: RoutingExpr, Expr: fn} }
