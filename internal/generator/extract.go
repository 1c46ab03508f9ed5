package generator

import (
	"fmt"
	"strconv"
	"strings"

	"martianoff/unapplygen/generr"
	"martianoff/unapplygen/internal/model"
)

// Descriptor is the normalized form of one unapply method.
type Descriptor struct {
	Name       string
	InputType  model.TypeRef
	Arity      int
	TypeParams []model.TypeParam
	Fields     []Field
}

// Field is one component of the tuple returned by an unapply method.
type Field struct {
	Type model.TypeRef
	// Placeholder is the 1-based index of the synthesized `_i` type parameter
	// standing for this field, or 0 if the field has a concrete type.
	Placeholder int
	// Bound is the upper bound of the placeholder, if any.
	Bound *model.TypeRef
}

// HasGenerics reports whether the pattern constructor needs its own type
// parameters and therefore has to be a method.
func (d *Descriptor) HasGenerics() bool {
	if len(d.TypeParams) > 0 {
		return true
	}
	for _, f := range d.Fields {
		if f.Placeholder > 0 {
			return true
		}
	}
	return false
}

// Placeholders returns the fields that are synthesized as `_i` type parameters.
func (d *Descriptor) Placeholders() []Field {
	var result []Field
	for _, f := range d.Fields {
		if f.Placeholder > 0 {
			result = append(result, f)
		}
	}
	return result
}

// Extract derives the descriptor of a validated unapply method. tupleWord is
// the prefix of the tuple type names, e.g. "Tuple" for Tuple0..Tuple8.
func Extract(m model.Method, tupleWord string) (*Descriptor, error) {
	if len(m.Params) != 1 {
		return nil, fmt.Errorf("method %s: expected exactly one parameter, got %d", m.Name, len(m.Params))
	}

	arity, err := arityOf(m, tupleWord)
	if err != nil {
		return nil, err
	}

	fields, err := fieldsOf(m, arity)
	if err != nil {
		return nil, err
	}

	return &Descriptor{
		Name:       m.Name,
		InputType:  m.Params[0],
		Arity:      arity,
		TypeParams: m.TypeParams,
		Fields:     fields,
	}, nil
}

func arityOf(m model.Method, tupleWord string) (int, error) {
	simpleName := m.Result.SimpleName()
	if !strings.HasPrefix(simpleName, tupleWord) {
		return 0, generr.NewMalformedArityError(m.Name, m.Result.Name, fmt.Sprintf("name does not start with %q", tupleWord))
	}
	suffix := simpleName[len(tupleWord):]
	n, err := strconv.ParseUint(suffix, 10, 16)
	if err != nil {
		return 0, generr.NewMalformedArityError(m.Name, m.Result.Name, fmt.Sprintf("%q is not a non-negative integer", suffix))
	}
	return int(n), nil
}

func fieldsOf(m model.Method, arity int) ([]Field, error) {
	args := m.Result.Args
	if len(args) == 0 {
		fields := make([]Field, arity)
		for i := range fields {
			fields[i] = Field{Type: model.TypeVar(placeholderName(i + 1)), Placeholder: i + 1}
		}
		return fields, nil
	}
	if len(args) != arity {
		return nil, generr.NewMalformedArityError(m.Name, m.Result.String(),
			fmt.Sprintf("arity %d does not match %d type arguments", arity, len(args)))
	}

	declared := make(map[string]model.TypeParam, len(m.TypeParams))
	for _, tp := range m.TypeParams {
		declared[tp.Name] = tp
	}

	fields := make([]Field, len(args))
	placeholders := 0
	for i, arg := range args {
		if !isUnbound(arg) {
			fields[i] = Field{Type: arg}
			continue
		}
		placeholders++
		f := Field{Type: model.TypeVar(placeholderName(placeholders)), Placeholder: placeholders}
		switch {
		case arg.IsWildcard():
			f.Bound = arg.Bound
		case declared[arg.Name].Name != "":
			v := model.TypeVar(arg.Name)
			f.Bound = &v
		case arg.Bound != nil:
			f.Bound = arg.Bound
		}
		fields[i] = f
	}
	return fields, nil
}

// isUnbound reports whether a tuple type argument is still generic.
func isUnbound(t model.TypeRef) bool {
	return (t.Var || t.IsWildcard()) && t.Dims == 0
}

func placeholderName(i int) string {
	return "_" + strconv.Itoa(i)
}
