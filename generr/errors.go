// Package generr defines the error kinds reported by the pattern generator.
package generr

import (
	"errors"
	"fmt"
)

// ErrorType defines the category of the error.
type ErrorType string

const (
	TypeSyntax          ErrorType = "SyntaxError"
	TypeMalformedArity  ErrorType = "MalformedArityError"
	TypeDefaultOrigin   ErrorType = "DefaultOriginError"
	TypeInvalidManifest ErrorType = "ManifestError"
)

// GenError is the interface for all generator errors.
type GenError interface {
	error
	Type() ErrorType
}

// BaseError provides common fields for generator errors.
type BaseError struct {
	Msg     string
	ErrType ErrorType
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

func (e *BaseError) Type() ErrorType {
	return e.ErrType
}

// SyntaxError represents a malformed type expression.
type SyntaxError struct {
	BaseError
	Expr   string
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[%s] %q at column %d: %s", e.ErrType, e.Expr, e.Column, e.Msg)
}

// MalformedArityError reports a result type whose name does not encode a
// non-negative arity.
type MalformedArityError struct {
	BaseError
	Method     string
	ResultType string
}

func (e *MalformedArityError) Error() string {
	return fmt.Sprintf("[%s] method %s: result type %s: %s", e.ErrType, e.Method, e.ResultType, e.Msg)
}

// DefaultOriginError reports a reference to a type in the default package
// from a unit that lives in a named package.
type DefaultOriginError struct {
	BaseError
	Name    string
	Package string
}

func (e *DefaultOriginError) Error() string {
	return fmt.Sprintf("[%s] can't import class '%s' located in default package from package %s", e.ErrType, e.Name, e.Package)
}

// ManifestError represents an invalid holder manifest entry.
type ManifestError struct {
	BaseError
	FilePath string
	Line     int
	Column   int
}

func (e *ManifestError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] %s:%d:%d %s", e.ErrType, e.FilePath, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("[%s] %s %s", e.ErrType, e.FilePath, e.Msg)
}

// NewSyntaxError creates a new SyntaxError.
func NewSyntaxError(expr string, column int, msg string) *SyntaxError {
	return &SyntaxError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeSyntax,
		},
		Expr:   expr,
		Column: column,
	}
}

// NewMalformedArityError creates a new MalformedArityError.
func NewMalformedArityError(method, resultType, msg string) *MalformedArityError {
	return &MalformedArityError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeMalformedArity,
		},
		Method:     method,
		ResultType: resultType,
	}
}

// NewDefaultOriginError creates a new DefaultOriginError.
func NewDefaultOriginError(name, pkg string) *DefaultOriginError {
	return &DefaultOriginError{
		BaseError: BaseError{
			Msg:     "default package",
			ErrType: TypeDefaultOrigin,
		},
		Name:    name,
		Package: pkg,
	}
}

// NewManifestErrorAt creates a ManifestError with file path, line, and column position.
func NewManifestErrorAt(filePath string, line, column int, msg string) *ManifestError {
	return &ManifestError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeInvalidManifest,
		},
		FilePath: filePath,
		Line:     line,
		Column:   column,
	}
}

// TypeOf returns the ErrorType of the first generator error in err's chain,
// or the empty string.
func TypeOf(err error) ErrorType {
	var ge GenError
	if errors.As(err, &ge) {
		return ge.Type()
	}
	return ""
}
