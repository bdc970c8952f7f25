// Package policy evaluates approval rules for workflow documents.
// Rules are CEL boolean expressions compiled at startup; a rule that
// evaluates to false blocks the approval.
package policy

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"gudang/internal/core/apperror"
	"gudang/pkg/logger"
)

// Rule is a named CEL expression over the approval input.
// Example: {"max-quantity", "quantity <= 1000.0"}.
type Rule struct {
	Name       string
	Expression string
}

// Input carries the values visible to rule expressions.
type Input struct {
	// Quantity in the product's base unit
	Quantity float64
	// Amount is quantity * unit price, in minor currency units
	Amount float64
	// Document type: "procurement" or "disposal"
	DocumentType string
	ProductID    string
	LocationID   string
}

type compiledRule struct {
	name    string
	program cel.Program
}

// Engine checks approval inputs against the configured rules.
// An empty rule set allows everything.
type Engine struct {
	rules []compiledRule
}

// NewEngine compiles the rule set. Invalid expressions fail fast.
func NewEngine(rules []Rule) (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("quantity", cel.DoubleType),
		cel.Variable("amount", cel.DoubleType),
		cel.Variable("document_type", cel.StringType),
		cel.Variable("product_id", cel.StringType),
		cel.Variable("location_id", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel environment: %w", err)
	}

	engine := &Engine{}
	for _, rule := range rules {
		ast, issues := env.Compile(rule.Expression)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("compile policy rule %q: %w", rule.Name, issues.Err())
		}
		if ast.OutputType() != cel.BoolType {
			return nil, fmt.Errorf("policy rule %q must evaluate to bool, got %s", rule.Name, ast.OutputType())
		}
		program, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("build policy rule %q: %w", rule.Name, err)
		}
		engine.rules = append(engine.rules, compiledRule{name: rule.Name, program: program})
	}

	return engine, nil
}

// Check evaluates all rules; the first failing rule blocks the approval.
func (e *Engine) Check(ctx context.Context, input Input) error {
	if e == nil || len(e.rules) == 0 {
		return nil
	}

	vars := map[string]any{
		"quantity":      input.Quantity,
		"amount":        input.Amount,
		"document_type": input.DocumentType,
		"product_id":    input.ProductID,
		"location_id":   input.LocationID,
	}

	for _, rule := range e.rules {
		out, _, err := rule.program.Eval(vars)
		if err != nil {
			return apperror.NewInternal(fmt.Errorf("evaluate policy rule %q: %w", rule.name, err))
		}
		allowed, ok := out.Value().(bool)
		if !ok {
			return apperror.NewInternal(fmt.Errorf("policy rule %q returned non-bool", rule.name))
		}
		if !allowed {
			logger.Info(ctx, "approval blocked by policy",
				"rule", rule.name,
				"document_type", input.DocumentType,
				"product_id", input.ProductID,
			)
			return apperror.NewPolicyViolation(rule.name)
		}
	}

	return nil
}
