package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/dagsched/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional fields with zero-width
// placeholder expressions, so a simple nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// evalWholeNumber evaluates expr and decodes it as a non-negative integer.
func evalWholeNumber(expr hcl.Expression, evalCtx *hcl.EvalContext) (int64, error) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return 0, diags
	}
	return wholeNumber(val)
}

// wholeNumber converts a cty value to a non-negative int64. Strings holding
// numbers are accepted through the standard cty conversion rules.
func wholeNumber(val cty.Value) (int64, error) {
	if val.IsNull() {
		return 0, fmt.Errorf("value must not be null")
	}
	if !val.IsWhollyKnown() {
		return 0, fmt.Errorf("value is not known")
	}

	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %s to number: %w", val.Type().FriendlyName(), err)
	}

	var n int64
	if err := gocty.FromCtyValue(num, &n); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("value %d must not be negative", n)
	}
	return n, nil
}

// parseOverride parses a command-line variable value as an HCL expression
// evaluated without any context.
func parseOverride(name, raw string) (cty.Value, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(raw), "<var "+name+">", hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("invalid value for variable %q: %w", name, diags)
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("invalid value for variable %q: %w", name, diags)
	}
	return val, nil
}
