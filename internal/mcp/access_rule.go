package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// AccessRule is a compiled CEL expression deciding whether an invocation may
// proceed. The expression sees tool (string), readOnly (bool) and args (map).
type AccessRule struct {
	expression string
	program    cel.Program
}

// CompileAccessRule compiles expression. An empty expression yields a nil
// rule, which allows everything.
func CompileAccessRule(expression string) (*AccessRule, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("tool", cel.StringType),
		cel.Variable("readOnly", cel.BoolType),
		cel.Variable("args", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compilation error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("access rule must evaluate to bool, got %s", ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}
	return &AccessRule{expression: expression, program: program}, nil
}

// Expression returns the source of the rule.
func (r *AccessRule) Expression() string {
	if r == nil {
		return ""
	}
	return r.expression
}

// Allow evaluates the rule for one invocation. A nil rule allows everything.
func (r *AccessRule) Allow(ctx context.Context, tool string, readOnly bool, args Arguments) (bool, error) {
	if r == nil {
		return true, nil
	}
	if args == nil {
		args = Arguments{}
	}
	out, _, err := r.program.ContextEval(ctx, map[string]interface{}{
		"tool":     tool,
		"readOnly": readOnly,
		"args":     map[string]interface{}(args),
	})
	if err != nil {
		return false, fmt.Errorf("CEL evaluation error: %w", err)
	}
	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not return boolean value")
	}
	return allowed, nil
}
