package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Request is a GraphQL request body.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Response is a GraphQL response body.
type Response struct {
	Data   any           `json:"data,omitempty"`
	Errors gqlerror.List `json:"errors,omitempty"`
}

// Execute parses, validates and runs a query operation. Field errors are
// reported next to partial data; request errors yield no data.
func (r *Resolver) Execute(ctx context.Context, req Request) *Response {
	doc, errs := gqlparser.LoadQuery(Schema, req.Query)
	if len(errs) > 0 {
		return &Response{Errors: errs}
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		if req.OperationName == "" {
			return &Response{Errors: gqlerror.List{gqlerror.Errorf("operationName is required when the document has several operations")}}
		}
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("unknown operation %q", req.OperationName)}}
	}
	if op.Operation != ast.Query {
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("only query operations are supported")}}
	}

	vars, err := validator.VariableValues(Schema, op, req.Variables)
	if err != nil {
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("%s", err.Error())}}
	}

	data := newObject()
	var fieldErrs gqlerror.List
	for _, group := range collectFields(op.SelectionSet, vars) {
		field := group[0]
		value, err := r.resolveField(ctx, field, vars)
		if err != nil {
			gqlErr := gqlerror.Errorf("%s", err.Error())
			gqlErr.Path = ast.Path{ast.PathName(field.Alias)}
			fieldErrs = append(fieldErrs, gqlErr)
			data.set(field.Alias, nil)
			continue
		}
		projected, err := project(value, group, vars)
		if err != nil {
			gqlErr := gqlerror.Errorf("%s", err.Error())
			gqlErr.Path = ast.Path{ast.PathName(field.Alias)}
			fieldErrs = append(fieldErrs, gqlErr)
			data.set(field.Alias, nil)
			continue
		}
		data.set(field.Alias, projected)
	}
	return &Response{Data: data, Errors: fieldErrs}
}

func (r *Resolver) resolveField(ctx context.Context, field *ast.Field, vars map[string]any) (any, error) {
	if r.Tracer != nil {
		var span trace.Span
		ctx, span = r.Tracer.Start(ctx, "graphql."+field.Name,
			trace.WithAttributes(attribute.String("graphql.field", field.Name)))
		defer span.End()

		value, err := r.dispatch(ctx, field, vars)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return value, err
	}
	return r.dispatch(ctx, field, vars)
}

func (r *Resolver) dispatch(ctx context.Context, field *ast.Field, vars map[string]any) (any, error) {
	q := r.Query()
	args := field.ArgumentMap(vars)

	switch field.Name {
	case "__typename":
		return "Query", nil
	case "health":
		return q.Health(ctx)
	case "profiles":
		return q.Profiles(ctx)
	case "zones":
		var profile *string
		if s := stringArg(args, "profile"); s != "" {
			profile = &s
		}
		return q.Zones(ctx, profile)
	case "packagingBoxes":
		return q.PackagingBoxes(ctx)
	case "distance":
		return q.Distance(ctx, args["a"], args["b"])
	case "shippingQuote", "shippingQuotes", "orderTotals":
		var input ShippingQuoteInput
		if err := decodeArg(args, "input", &input); err != nil {
			return nil, err
		}
		switch field.Name {
		case "shippingQuote":
			return q.ShippingQuote(ctx, input)
		case "shippingQuotes":
			return q.ShippingQuotes(ctx, input)
		default:
			return q.OrderTotals(ctx, input)
		}
	case "bundleAllocation":
		var input BundleAllocationInput
		if err := decodeArg(args, "input", &input); err != nil {
			return nil, err
		}
		return q.BundleAllocation(ctx, input)
	default:
		r.Logger.Ctx(ctx).Warn("Unsupported query field", zap.String("field", field.Name))
		return nil, fmt.Errorf("field %q is not supported", field.Name)
	}
}

// ============================================================================
// Selection handling
// ============================================================================

// collectFields flattens fragments and applies @skip/@include. Fields with the
// same response key are grouped in document order.
func collectFields(set ast.SelectionSet, vars map[string]any) [][]*ast.Field {
	var (
		order  []string
		groups = make(map[string][]*ast.Field)
	)
	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *ast.Field:
				if !included(s.Directives, vars) {
					continue
				}
				if _, ok := groups[s.Alias]; !ok {
					order = append(order, s.Alias)
				}
				groups[s.Alias] = append(groups[s.Alias], s)
			case *ast.InlineFragment:
				if included(s.Directives, vars) {
					walk(s.SelectionSet)
				}
			case *ast.FragmentSpread:
				if included(s.Directives, vars) && s.Definition != nil {
					walk(s.Definition.SelectionSet)
				}
			}
		}
	}
	walk(set)

	result := make([][]*ast.Field, len(order))
	for i, key := range order {
		result[i] = groups[key]
	}
	return result
}

func included(directives ast.DirectiveList, vars map[string]any) bool {
	if d := directives.ForName("skip"); d != nil {
		if skip, _ := d.ArgumentMap(vars)["if"].(bool); skip {
			return false
		}
	}
	if d := directives.ForName("include"); d != nil {
		if include, _ := d.ArgumentMap(vars)["if"].(bool); !include {
			return false
		}
	}
	return true
}

// project renders a resolver value as JSON and keeps only the selected fields.
// Output field names are the JSON names of the model structs.
func project(value any, group []*ast.Field, vars map[string]any) (any, error) {
	var sub ast.SelectionSet
	for _, f := range group {
		sub = append(sub, f.SelectionSet...)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	return selectFields(generic, sub, group[0], vars), nil
}

func selectFields(value any, set ast.SelectionSet, parent *ast.Field, vars map[string]any) any {
	if len(set) == 0 || value == nil {
		return value
	}
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = selectFields(item, set, parent, vars)
		}
		return out
	case map[string]any:
		obj := newObject()
		for _, group := range collectFields(set, vars) {
			f := group[0]
			if f.Name == "__typename" {
				obj.set(f.Alias, typeName(parent))
				continue
			}
			var sub ast.SelectionSet
			for _, g := range group {
				sub = append(sub, g.SelectionSet...)
			}
			obj.set(f.Alias, selectFields(v[f.Name], sub, f, vars))
		}
		return obj
	default:
		return value
	}
}

func typeName(f *ast.Field) string {
	if f == nil || f.Definition == nil || f.Definition.Type == nil {
		return ""
	}
	t := f.Definition.Type
	for t.Elem != nil {
		t = t.Elem
	}
	return t.NamedType
}

// object is a JSON object that keeps insertion order.
type object struct {
	keys   []string
	values map[string]any
}

func newObject() *object {
	return &object{values: make(map[string]any)}
}

func (o *object) set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
