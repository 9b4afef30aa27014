package routing

import (
	"fmt"
	"reflect"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types/ref"
	"github.com/riverflow-io/riverflow/internal/wfcore"
	"google.golang.org/protobuf/types/known/structpb"
)

var structValueType = reflect.TypeOf((*structpb.Value)(nil))

// celEnv is the shared CEL environment for routing expressions, grounded
// on pkg/governance/policy_evaluator_cel.go's cel.NewEnv/cel.Variable
// setup: routing expressions see the worker's error message (or "") and
// its result data as loosely-typed inputs, and must produce either a
// single {target, payload} object or a list of them.
func celEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("error", cel.StringType),
		cel.Variable("data", cel.DynType),
	)
}

// CompileExpr compiles a CEL routing expression source string into a
// wfcore.RoutingExprFunc, caching nothing across calls — callers
// (bootstrap.LoadComponents) compile once at load time and store the resulting
// closure on the RoutingRule, matching spec §9's "Expr is captured as a
// compiled closure produced by the build step" note.
func CompileExpr(source string) (wfcore.RoutingExprFunc, error) {
	env, err := celEnv()
	if err != nil {
		return nil, fmt.Errorf("routing expression environment: %w", err)
	}
	ast, issues := env.Compile(source)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("routing expression %q: %w", source, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("routing expression %q: %w", source, err)
	}

	return func(workerErr error, result map[string]any) ([]wfcore.RoutePair, error) {
		errStr := ""
		if workerErr != nil {
			errStr = workerErr.Error()
		}
		out, _, err := prg.Eval(map[string]any{
			"error": errStr,
			"data":  result,
		})
		if err != nil {
			return nil, fmt.Errorf("routing expression %q evaluation: %w", source, err)
		}
		return parseCELResult(out)
	}, nil
}

// parseCELResult accepts either a single {target, payload} object or a
// list of them, dropping entries that are not well-formed objects with a
// non-empty target string (spec §4.6).
//
// cel-go's aggregate ref.Val implementations (list/map literals built by
// the interpreter itself, as opposed to values passed in through the
// activation) do not reliably yield []any/map[string]any through a type
// switch on Value(), nor through ConvertToNative into those interface-
// keyed native types — nested literals can convert their elements no
// further than cel-go's own internal representation. Routing through
// google.protobuf.Value (which every cel-go aggregate type has first-
// class, recursive support for) and then structpb's AsInterface is the
// one conversion path guaranteed to bottom out in plain Go
// maps/slices/scalars at every level of nesting.
func parseCELResult(out ref.Val) ([]wfcore.RoutePair, error) {
	native, err := out.ConvertToNative(structValueType)
	if err != nil {
		return nil, nil
	}
	pbVal, ok := native.(*structpb.Value)
	if !ok {
		return nil, nil
	}

	switch kind := pbVal.GetKind().(type) {
	case *structpb.Value_ListValue:
		items := kind.ListValue.GetValues()
		out := make([]wfcore.RoutePair, 0, len(items))
		for _, item := range items {
			if p, ok := pairFromAny(item.AsInterface()); ok {
				out = append(out, p)
			}
		}
		return out, nil
	case *structpb.Value_StructValue:
		if p, ok := pairFromAny(pbVal.AsInterface()); ok {
			return []wfcore.RoutePair{p}, nil
		}
	}
	return nil, nil
}

func pairFromAny(v any) (wfcore.RoutePair, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return wfcore.RoutePair{}, false
	}
	return pairFromMap(m)
}

func pairFromMap(m map[string]any) (wfcore.RoutePair, bool) {
	target, ok := m["target"].(string)
	if !ok || target == "" {
		return wfcore.RoutePair{}, false
	}
	payload, _ := m["payload"].(map[string]any)
	return wfcore.RoutePair{Target: target, Payload: payload}, true
}
