package rules

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/vendorsafe/kestrel/internal/domain"
)

// Expression rules let admins author checks the closed operator set can't
// express (cross-field comparisons, arithmetic over limits). Expressions are
// compiled once, cached, and must evaluate to bool; any compile or eval
// failure counts as a non-match.

var (
	celEnvOnce sync.Once
	celEnv     *cel.Env
	celEnvErr  error

	// programCache maps expression source to a compiled cel.Program.
	programCache sync.Map
)

func expressionEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("vendor", cel.MapType(cel.StringType, cel.DynType)),
			cel.Variable("org", cel.MapType(cel.StringType, cel.DynType)),
			cel.Variable("policy", cel.MapType(cel.StringType, cel.DynType)),
		)
	})
	return celEnv, celEnvErr
}

// compileExpression compiles an expression and caches the program.
func compileExpression(expr string) (cel.Program, error) {
	if expr == "" {
		return nil, fmt.Errorf("expression is required")
	}

	if cached, ok := programCache.Load(expr); ok {
		return cached.(cel.Program), nil
	}

	env, err := expressionEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create expression environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile expression: %w", issues.Err())
	}

	// Dyn shows up when the expression traverses the untyped record maps;
	// the bool requirement is then enforced at eval time instead.
	outputType := ast.OutputType()
	if outputType != cel.BoolType && outputType != cel.DynType {
		return nil, fmt.Errorf("expression must return bool, got %s", outputType)
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}

	programCache.Store(expr, program)
	return program, nil
}

// evalExpression evaluates a compiled expression against the activation.
// Fails closed: any error is a non-match.
func evalExpression(expr string, activation map[string]any) bool {
	program, err := compileExpression(expr)
	if err != nil {
		return false
	}

	out, _, err := program.Eval(activation)
	if err != nil {
		return false
	}

	b, ok := out.(types.Bool)
	return ok && bool(b)
}

// activationFor builds the CEL activation from the evaluation context and
// the policy record under evaluation. Nil records become empty maps so
// expressions never see missing variables.
func activationFor(ectx domain.EvaluationContext, policy domain.Record) map[string]any {
	vendor := ectx.Vendor
	if vendor == nil {
		vendor = domain.Record{}
	}
	org := ectx.Org
	if org == nil {
		org = domain.Record{}
	}
	if policy == nil {
		policy = domain.Record{}
	}
	return map[string]any{
		"vendor": map[string]any(vendor),
		"org":    map[string]any(org),
		"policy": map[string]any(policy),
	}
}
