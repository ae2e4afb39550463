// Package formula evaluates spreadsheet-style expressions against one
// row's field values.
package formula

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// functions is the math function table available inside formulas.
var functions = map[string]govaluate.ExpressionFunction{
	"abs":   unary(math.Abs),
	"sqrt":  unary(math.Sqrt),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"log":   unary(math.Log),
	"exp":   unary(math.Exp),
	"round": unary(func(x float64) float64 { return math.Round(x) }),
	"min":   binary(math.Min),
	"max":   binary(math.Max),
	"pow":   binary(math.Pow),
}

func unary(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, errArity
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, errArity
		}
		return fn(x), nil
	}
}

func binary(fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, errArity
		}
		x, xok := args[0].(float64)
		y, yok := args[1].(float64)
		if !xok || !yok {
			return nil, errArity
		}
		return fn(x, y), nil
	}
}

type arityError struct{}

func (arityError) Error() string { return "bad arguments" }

var errArity = arityError{}

// Evaluate evaluates a formula against one row's scalar field values.
// Formulas start with '='; anything else yields nil (the "not a formula"
// signal, not an error). Every whole-word, case-insensitive occurrence of
// a field whose value parses as a finite number is substituted with that
// number before evaluation. All failure modes resolve to nil: Evaluate is
// pure, synchronous, and never panics out.
func Evaluate(formula string, rowData map[string]any) (result any) {
	defer func() {
		if recover() != nil {
			result = nil
		}
	}()

	expr := strings.TrimSpace(formula)
	if !strings.HasPrefix(expr, "=") {
		return nil
	}
	expr = substituteFields(expr[1:], rowData)

	parsed, err := govaluate.NewEvaluableExpressionWithFunctions(expr, functions)
	if err != nil {
		return nil
	}
	value, err := parsed.Evaluate(nil)
	if err != nil {
		return nil
	}

	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	case string:
		return v
	default:
		return nil
	}
}

// substituteFields replaces field references with their numeric values.
// Fields without a numeric value are left alone; the expression will then
// usually fail to parse, which surfaces as a nil result.
func substituteFields(expr string, rowData map[string]any) string {
	for field, value := range rowData {
		num, ok := asNumber(value)
		if !ok {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(field) + `\b`)
		if err != nil {
			continue
		}
		expr = re.ReplaceAllString(expr, strconv.FormatFloat(num, 'f', -1, 64))
	}
	return expr
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(n, ",", ".")), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return 0, false
	}
}
