// Package filterexpr binds AIP-160 style filter and order_by strings from
// list requests onto typed query parameter structs. Filters are parsed with
// cel-go and restricted to AND-joined comparisons against whitelisted fields.
package filterexpr

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Msg is implemented by list requests exposing raw filter and order_by text.
type Msg interface {
	GetFilter() string
	GetOrderBy() string
}

// ValueKind restricts which literals a filter field accepts.
type ValueKind string

const (
	KindString    ValueKind = "string"
	KindNumber    ValueKind = "number"
	KindTimestamp ValueKind = "timestamp"
)

// Op is a supported comparison operator.
type Op string

const (
	OpEQ  Op = "=="
	OpGTE Op = ">="
	OpLTE Op = "<="
	OpIN  Op = "in"
)

// FilterField maps one filter identifier to the params struct fields each
// allowed operator writes to.
type FilterField struct {
	Kind ValueKind
	Ops  map[Op]string
}

// OrderSchema whitelists order keys and supplies defaults. Primary and
// fallback must name distinct keys so ordering stays deterministic.
type OrderSchema struct {
	DefaultPrimary     string
	DefaultPrimaryDesc bool
	FallbackKey        string
	FallbackDesc       bool
	Fields             map[string]string
}

// ResourceSchema aggregates the filter and order rules for one resource.
type ResourceSchema struct {
	Filter map[string]FilterField
	Order  OrderSchema
}

var timeType = reflect.TypeOf(time.Time{})

// Bind parses msg's filter and order_by and populates binding accordingly.
func Bind[M Msg, P any](msg M, binding *P, schema ResourceSchema) error {
	if binding == nil {
		return errors.New("binding must not be nil")
	}
	dest := reflect.ValueOf(binding).Elem()
	if dest.Kind() != reflect.Struct {
		return errors.New("binding must point to a struct")
	}

	if err := bindFilter(dest, msg.GetFilter(), schema.Filter); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	ord, err := parseOrderBy(msg.GetOrderBy(), schema.Order)
	if err != nil {
		return fmt.Errorf("order_by: %w", err)
	}
	return applyOrder(dest, ord)
}

func bindFilter(dest reflect.Value, filter string, fields map[string]FilterField) error {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil
	}
	if len(fields) == 0 {
		return errors.New("no filterable fields defined")
	}

	env, err := buildEnv(fields)
	if err != nil {
		return err
	}
	ast, issues := env.Parse(filter)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("invalid filter: %w", issues.Err())
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return fmt.Errorf("failed to convert AST: %w", err)
	}

	conjuncts, err := flattenAnd(parsed.GetExpr())
	if err != nil {
		return err
	}
	for _, expr := range conjuncts {
		if err := bindPredicate(dest, expr, fields); err != nil {
			return err
		}
	}
	return nil
}

func buildEnv(fields map[string]FilterField) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(fields)+1)
	for name, rule := range fields {
		var celType *cel.Type
		switch rule.Kind {
		case KindString:
			celType = cel.StringType
		case KindNumber:
			celType = cel.DoubleType
		case KindTimestamp:
			celType = cel.TimestampType
		default:
			return nil, fmt.Errorf("field %q: unsupported kind %s", name, rule.Kind)
		}
		opts = append(opts, cel.Variable(name, celType))
	}
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	return cel.NewEnv(opts...)
}

// flattenAnd turns nested AND chains into a flat predicate list. Any other
// logical operator is rejected.
func flattenAnd(expr *exprpb.Expr) ([]*exprpb.Expr, error) {
	if expr == nil {
		return nil, errors.New("empty expression")
	}
	call := expr.GetCallExpr()
	if call == nil {
		return []*exprpb.Expr{expr}, nil
	}
	switch call.Function {
	case "_&&_":
		var result []*exprpb.Expr
		for _, arg := range call.Args {
			nested, err := flattenAnd(arg)
			if err != nil {
				return nil, err
			}
			result = append(result, nested...)
		}
		return result, nil
	case "_||_", "_?_:_", "!_":
		return nil, fmt.Errorf("logical operator %q is not supported; only AND is allowed", call.Function)
	default:
		return []*exprpb.Expr{expr}, nil
	}
}

func bindPredicate(dest reflect.Value, expr *exprpb.Expr, fields map[string]FilterField) error {
	call := expr.GetCallExpr()
	if call == nil {
		return errors.New("expected a comparison expression")
	}

	var op Op
	switch call.Function {
	case "_==_":
		op = OpEQ
	case "_>=_":
		op = OpGTE
	case "_<=_":
		op = OpLTE
	case "_in_", "@in":
		op = OpIN
	default:
		return fmt.Errorf("operator %q is not supported", call.Function)
	}
	if call.Target != nil || len(call.Args) != 2 {
		return fmt.Errorf("operator %q expects two operands", string(op))
	}

	ident := call.Args[0].GetIdentExpr()
	if ident == nil {
		return errors.New("left-hand side must be a field identifier")
	}
	name := ident.GetName()
	rule, ok := fields[name]
	if !ok {
		return fmt.Errorf("field %q is not allowed", name)
	}
	target, ok := rule.Ops[op]
	if !ok {
		return fmt.Errorf("operator %q is not allowed for field %q", string(op), name)
	}

	value, err := parseLiteral(call.Args[1])
	if err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	if err := checkLiteral(rule.Kind, op, value); err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	return assign(dest, target, value)
}

func parseLiteral(expr *exprpb.Expr) (any, error) {
	if constant := expr.GetConstExpr(); constant != nil {
		switch constant.ConstantKind.(type) {
		case *exprpb.Constant_StringValue:
			return constant.GetStringValue(), nil
		case *exprpb.Constant_Int64Value:
			return float64(constant.GetInt64Value()), nil
		case *exprpb.Constant_Uint64Value:
			return float64(constant.GetUint64Value()), nil
		case *exprpb.Constant_DoubleValue:
			return constant.GetDoubleValue(), nil
		default:
			return nil, fmt.Errorf("literal type %T is not supported", constant.ConstantKind)
		}
	}

	if list := expr.GetListExpr(); list != nil {
		values := make([]string, len(list.GetElements()))
		for i, elem := range list.GetElements() {
			val, err := parseLiteral(elem)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			str, ok := val.(string)
			if !ok {
				return nil, errors.New("list elements must be string literals")
			}
			values[i] = str
		}
		return values, nil
	}

	if call := expr.GetCallExpr(); call != nil && call.Function == "timestamp" {
		if call.Target != nil || len(call.Args) != 1 {
			return nil, errors.New("timestamp() expects a single string argument")
		}
		arg := call.Args[0].GetConstExpr()
		if arg == nil {
			return nil, errors.New("timestamp() argument must be a string literal")
		}
		t, err := time.Parse(time.RFC3339, arg.GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("timestamp literal %q is not RFC3339", arg.GetStringValue())
		}
		return t, nil
	}

	return nil, errors.New("right-hand side must be a literal, list, or timestamp() call")
}

func checkLiteral(kind ValueKind, op Op, value any) error {
	if op == OpIN {
		list, ok := value.([]string)
		if !ok {
			return errors.New("expected a list of string literals")
		}
		if len(list) == 0 {
			return errors.New("list must not be empty")
		}
		return nil
	}
	switch kind {
	case KindString:
		if _, ok := value.(string); !ok {
			return errors.New("expected a string literal")
		}
	case KindNumber:
		if _, ok := value.(float64); !ok {
			return errors.New("expected a numeric literal")
		}
	case KindTimestamp:
		if _, ok := value.(time.Time); !ok {
			return errors.New("expected a timestamp() literal")
		}
	}
	return nil
}

func assign(dest reflect.Value, name string, value any) error {
	field := dest.FieldByName(name)
	if !field.IsValid() {
		return fmt.Errorf("params struct %s has no field named %q", dest.Type(), name)
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field %q on params struct", name)
	}
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		field = field.Elem()
	}

	switch v := value.(type) {
	case string:
		if field.Kind() != reflect.String {
			return fmt.Errorf("field %q is not a string", name)
		}
		field.SetString(v)
	case []string:
		if field.Kind() != reflect.Slice || field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("field %q is not a string slice", name)
		}
		field.Set(reflect.ValueOf(append([]string(nil), v...)))
	case float64:
		return assignNumeric(field, name, v)
	case time.Time:
		if field.Type() != timeType {
			return fmt.Errorf("field %q is not a time.Time", name)
		}
		field.Set(reflect.ValueOf(v))
	default:
		return fmt.Errorf("unsupported literal type %T", value)
	}
	return nil
}

func assignNumeric(field reflect.Value, name string, value float64) error {
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		field.SetFloat(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if math.Trunc(value) != value {
			return fmt.Errorf("field %q requires an integer literal", name)
		}
		if field.OverflowInt(int64(value)) {
			return fmt.Errorf("value %v overflows field %q", value, name)
		}
		field.SetInt(int64(value))
	default:
		return fmt.Errorf("field %q is not numeric", name)
	}
	return nil
}
