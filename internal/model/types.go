// Package model describes the holder types and factory methods handed to the
// pattern generator.
package model

import (
	"strings"
)

// Wildcard is the name of a wildcard type argument (`?`).
const Wildcard = "?"

// TypeRef represents a Java type as written in a method signature.
type TypeRef struct {
	// Name is a qualified class name ("java.lang.String"), a primitive ("int"),
	// a type variable ("T") or Wildcard.
	Name string
	Args []TypeRef
	// Var marks Name as a type variable declared by the method.
	Var bool
	// Bound is the upper bound of a wildcard or a type variable, if any.
	Bound *TypeRef
	// Dims is the number of array dimensions.
	Dims int
}

// Named returns a TypeRef for a class name with optional type arguments.
func Named(name string, args ...TypeRef) TypeRef {
	return TypeRef{Name: name, Args: args}
}

// TypeVar returns a TypeRef for a type variable.
func TypeVar(name string) TypeRef {
	return TypeRef{Name: name, Var: true}
}

// IsQualified reports whether the type name carries a package or enclosing type.
func (t TypeRef) IsQualified() bool {
	return strings.Contains(t.Name, ".")
}

// IsWildcard reports whether t is a `?` type argument.
func (t TypeRef) IsWildcard() bool {
	return t.Name == Wildcard
}

// SimpleName returns the last segment of the type name.
func (t TypeRef) SimpleName() string {
	return SimpleNameOf(t.Name)
}

func (t TypeRef) String() string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	if t.IsWildcard() && t.Bound != nil {
		sb.WriteString(" extends ")
		sb.WriteString(t.Bound.String())
	}
	if len(t.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteByte('>')
	}
	for i := 0; i < t.Dims; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

// TypeParam is a type parameter declared by a method, e.g. `T extends Number`.
type TypeParam struct {
	Name   string
	Bounds []TypeRef
}

func (p TypeParam) String() string {
	if len(p.Bounds) == 0 {
		return p.Name
	}
	bounds := make([]string, len(p.Bounds))
	for i, b := range p.Bounds {
		bounds[i] = b.String()
	}
	return p.Name + " extends " + strings.Join(bounds, " & ")
}

// Position locates a declaration in its source.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) IsValid() bool {
	return p.Line > 0
}

// Method is a factory (unapply) method declared by a holder type.
type Method struct {
	Name        string
	TypeParams  []TypeParam
	Params      []TypeRef
	Result      TypeRef
	Annotations []string
	Pos         Position
}

// Annotated returns how many times the method carries the given annotation.
func (m Method) Annotated(name string) int {
	return countAnnotation(m.Annotations, name)
}

// HolderType is a type whose factory methods are expanded into pattern
// constructors.
type HolderType struct {
	Package     string
	Name        string
	Methods     []Method
	Annotations []string
	Pos         Position
}

// QualifiedName returns the package-qualified holder name.
func (h HolderType) QualifiedName() string {
	if h.Package == "" {
		return h.Name
	}
	return h.Package + "." + h.Name
}

// Annotated returns how many times the holder carries the given annotation.
func (h HolderType) Annotated(name string) int {
	return countAnnotation(h.Annotations, name)
}

// WithMethods returns a copy of h holding only the given methods.
func (h HolderType) WithMethods(methods []Method) HolderType {
	h.Methods = methods
	return h
}

// PackageOf returns everything before the last dot of a qualified name.
func PackageOf(fqn string) string {
	i := strings.LastIndexByte(fqn, '.')
	if i < 0 {
		return ""
	}
	return fqn[:i]
}

// SimpleNameOf returns everything after the last dot of a qualified name.
func SimpleNameOf(fqn string) string {
	return fqn[strings.LastIndexByte(fqn, '.')+1:]
}

func countAnnotation(annotations []string, name string) int {
	n := 0
	for _, a := range annotations {
		if a == name || SimpleNameOf(a) == name {
			n++
		}
	}
	return n
}
