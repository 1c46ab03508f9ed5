package generator

import (
	"strconv"
	"strings"

	"martianoff/unapplygen/internal/model"
)

// Runtime names the pattern-matching library the generated code is written against.
type Runtime struct {
	// EntryPoint is statically imported by every unit.
	EntryPoint string
	// PatternType is the placeholder pattern type; the pattern constructor of
	// arity N is PatternType followed by N.
	PatternType string
	// TupleWord is the prefix of the tuple type names returned by unapply methods.
	TupleWord string
}

// DefaultRuntime returns the javaslang runtime.
func DefaultRuntime() Runtime {
	return Runtime{
		EntryPoint:  "javaslang.API.Match.*",
		PatternType: "javaslang.API.Match.Pattern",
		TupleWord:   "Tuple",
	}
}

// DeclKind distinguishes the two shapes of a generated pattern constructor.
type DeclKind int

const (
	// ConstantMember is a `static final` field.
	ConstantMember DeclKind = iota
	// ParameterizedMethod is a generic static method taking the field patterns.
	ParameterizedMethod
)

func (k DeclKind) String() string {
	if k == ParameterizedMethod {
		return "method"
	}
	return "constant"
}

// Declaration is one generated pattern constructor.
type Declaration struct {
	Kind       DeclKind
	Name       string
	Generics   string
	ReturnType string
	Params     []string
	Body       string
}

func (d Declaration) String() string {
	if d.Kind == ConstantMember {
		return "public static final " + d.ReturnType + " " + d.Name + " = " + d.Body + ";"
	}
	var sb strings.Builder
	sb.WriteString("public static ")
	if d.Generics != "" {
		sb.WriteString(d.Generics)
		sb.WriteByte(' ')
	}
	sb.WriteString(d.ReturnType)
	sb.WriteByte(' ')
	sb.WriteString(d.Name)
	sb.WriteByte('(')
	sb.WriteString(strings.Join(d.Params, ", "))
	sb.WriteString(") {\n        return ")
	sb.WriteString(d.Body)
	sb.WriteString(";\n    }")
	return sb.String()
}

// emitter renders the types of one declaration through the unit's ImportManager.
type emitter struct {
	im *ImportManager
	rt Runtime
}

// Emit builds the pattern constructor for d. holder is the qualified name of
// the type declaring the unapply method.
func Emit(d *Descriptor, holder string, im *ImportManager, rt Runtime) (Declaration, error) {
	e := &emitter{im: im, rt: rt}

	// The decomposed type is always imported, so a default-package input type
	// is rejected here rather than written verbatim. The class literal uses the
	// raw form, the pattern type arguments the full one.
	rawInput := d.InputType.Name
	if !d.InputType.Var {
		name, err := im.GetType(rawInput)
		if err != nil {
			return Declaration{}, err
		}
		rawInput = name
	}
	inputSuffix, err := e.suffix(d.InputType)
	if err != nil {
		return Declaration{}, err
	}
	input := rawInput + inputSuffix
	pattern, err := im.GetType(rt.PatternType + strconv.Itoa(d.Arity))
	if err != nil {
		return Declaration{}, err
	}
	declaring, err := im.GetType(holder)
	if err != nil {
		return Declaration{}, err
	}
	unapplyRef := declaring + "::" + d.Name

	decl := Declaration{Kind: ConstantMember, Name: d.Name}
	if d.Arity == 0 {
		decl.ReturnType = pattern + "<" + input + ">"
		decl.Body = pattern + ".of(" + rawInput + ".class, " + unapplyRef + ")"
		if !d.HasGenerics() {
			return decl, nil
		}
		// a constant cannot declare type parameters
		decl.Kind = ParameterizedMethod
		if decl.Generics, err = e.generics(d); err != nil {
			return Declaration{}, err
		}
		return decl, nil
	}

	resultTypes := []string{input}
	for _, f := range d.Fields {
		ft, err := e.typeName(f.Type)
		if err != nil {
			return Declaration{}, err
		}
		resultTypes = append(resultTypes, ft)
	}
	decl.ReturnType = pattern + "<" + strings.Join(resultTypes, ", ") + ">"

	args := make([]string, d.Arity)
	for i := range args {
		args[i] = "p" + strconv.Itoa(i+1)
	}
	decl.Body = pattern + ".of(" + rawInput + ".class, " + strings.Join(args, ", ") + ", " + unapplyRef + ")"

	if !d.HasGenerics() {
		return decl, nil
	}

	decl.Kind = ParameterizedMethod
	if decl.Generics, err = e.generics(d); err != nil {
		return Declaration{}, err
	}
	placeholder, err := im.GetType(rt.PatternType)
	if err != nil {
		return Declaration{}, err
	}
	decl.Params = make([]string, d.Arity)
	for i := range decl.Params {
		// resultTypes[0] is the input type
		decl.Params[i] = placeholder + "<" + resultTypes[i+1] + ", ?> " + args[i]
	}
	return decl, nil
}

// generics renders the method's own type parameters followed by the
// synthesized `_i` placeholders.
func (e *emitter) generics(d *Descriptor) (string, error) {
	var params []string
	for _, tp := range d.TypeParams {
		s, err := e.typeParam(tp.Name, tp.Bounds)
		if err != nil {
			return "", err
		}
		params = append(params, s)
	}
	for _, f := range d.Placeholders() {
		var bounds []model.TypeRef
		if f.Bound != nil {
			bounds = []model.TypeRef{*f.Bound}
		}
		s, err := e.typeParam(f.Type.Name, bounds)
		if err != nil {
			return "", err
		}
		params = append(params, s)
	}
	if len(params) == 0 {
		return "", nil
	}
	return "<" + strings.Join(params, ", ") + ">", nil
}

func (e *emitter) typeParam(name string, bounds []model.TypeRef) (string, error) {
	if len(bounds) == 0 {
		return name, nil
	}
	rendered := make([]string, len(bounds))
	for i, b := range bounds {
		s, err := e.typeName(b)
		if err != nil {
			return "", err
		}
		rendered[i] = s
	}
	return name + " extends " + strings.Join(rendered, " & "), nil
}

// typeName renders t, importing every qualified name it mentions. Primitives
// and type variables are written verbatim.
func (e *emitter) typeName(t model.TypeRef) (string, error) {
	var sb strings.Builder
	switch {
	case t.IsWildcard():
		sb.WriteString(model.Wildcard)
		if t.Bound != nil {
			bound, err := e.typeName(*t.Bound)
			if err != nil {
				return "", err
			}
			sb.WriteString(" extends ")
			sb.WriteString(bound)
		}
	case t.Var || !t.IsQualified():
		sb.WriteString(t.Name)
	default:
		name, err := e.im.GetType(t.Name)
		if err != nil {
			return "", err
		}
		sb.WriteString(name)
	}
	suffix, err := e.suffix(t)
	if err != nil {
		return "", err
	}
	sb.WriteString(suffix)
	return sb.String(), nil
}

// suffix renders the type arguments and array dimensions of t.
func (e *emitter) suffix(t model.TypeRef) (string, error) {
	var sb strings.Builder
	if len(t.Args) > 0 {
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			s, err := e.typeName(a)
			if err != nil {
				return "", err
			}
			args[i] = s
		}
		sb.WriteString("<" + strings.Join(args, ", ") + ">")
	}
	for i := 0; i < t.Dims; i++ {
		sb.WriteString("[]")
	}
	return sb.String(), nil
}
