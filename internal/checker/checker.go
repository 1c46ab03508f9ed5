// Package checker validates holder types before generation. It keeps the
// methods that qualify as unapply methods and reports everything else.
package checker

import (
	"fmt"
	"strconv"
	"strings"

	"martianoff/unapplygen/internal/diag"
	"martianoff/unapplygen/internal/model"
)

const (
	HolderAnnotation = "Patterns"
	MethodAnnotation = "Unapply"
)

// Checker applies the discovery rules for one runtime tuple family.
type Checker struct {
	TupleWord string
	Sink      diag.Sink
}

// New creates a Checker. A nil sink discards diagnostics.
func New(tupleWord string, sink diag.Sink) *Checker {
	if sink == nil {
		sink = diag.Discard
	}
	return &Checker{TupleWord: tupleWord, Sink: sink}
}

// Check returns h holding only its qualifying methods, in declaration order.
// A holder without the holder annotation keeps no methods.
func (c *Checker) Check(h model.HolderType) model.HolderType {
	if h.Annotated(HolderAnnotation) == 0 {
		c.Sink.Report(diag.Diagnostic{
			Severity: diag.Error,
			Message:  fmt.Sprintf("type is not annotated with @%s", HolderAnnotation),
			Subject:  h.QualifiedName(),
			Pos:      h.Pos,
		})
		return h.WithMethods(nil)
	}

	kept := make([]model.Method, 0, len(h.Methods))
	for _, m := range h.Methods {
		if reason := c.reject(m); reason != "" {
			c.Sink.Report(diag.Diagnostic{
				Severity: diag.Error,
				Message:  reason,
				Subject:  h.QualifiedName() + "." + m.Name,
				Pos:      m.Pos,
			})
			continue
		}
		kept = append(kept, m)
	}
	return h.WithMethods(kept)
}

// CheckAll checks every holder and returns the checked copies.
func (c *Checker) CheckAll(holders []model.HolderType) []model.HolderType {
	result := make([]model.HolderType, len(holders))
	for i, h := range holders {
		result[i] = c.Check(h)
	}
	return result
}

// reject returns why m does not qualify, or the empty string.
func (c *Checker) reject(m model.Method) string {
	switch n := m.Annotated(MethodAnnotation); {
	case n == 0:
		return fmt.Sprintf("method is not annotated with @%s", MethodAnnotation)
	case n > 1:
		return fmt.Sprintf("@%s is repeated %d times", MethodAnnotation, n)
	}
	if len(m.Params) != 1 {
		return fmt.Sprintf("unapply method must take exactly one parameter, found %d", len(m.Params))
	}
	if !c.isTuple(m.Result) {
		return fmt.Sprintf("return type %s is not a %s<N>", m.Result, c.TupleWord)
	}
	return ""
}

func (c *Checker) isTuple(t model.TypeRef) bool {
	if t.Var || t.IsWildcard() || t.Dims > 0 {
		return false
	}
	digits, ok := strings.CutPrefix(t.SimpleName(), c.TupleWord)
	if !ok || digits == "" {
		return false
	}
	_, err := strconv.ParseUint(digits, 10, 16)
	return err == nil
}
