package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/unapplygen/internal/checker"
	"martianoff/unapplygen/internal/diag"
	"martianoff/unapplygen/internal/model"
)

func method(name string, annotations ...string) model.Method {
	return model.Method{
		Name:        name,
		Params:      []model.TypeRef{model.Named("shapes.Pair")},
		Result:      model.Named("javaslang.Tuple2", model.Named("java.lang.String"), model.Named("java.lang.String")),
		Annotations: annotations,
	}
}

func holder(methods ...model.Method) model.HolderType {
	return model.HolderType{
		Package:     "shapes",
		Name:        "Pair",
		Annotations: []string{"javaslang.match.annotation.Patterns"},
		Methods:     methods,
	}
}

func TestCheck_KeepsQualifyingMethods(t *testing.T) {
	sink := &diag.Collector{}
	c := checker.New("Tuple", sink)

	h := c.Check(holder(method("of", "Unapply"), method("helper")))
	require.Len(t, h.Methods, 1)
	assert.Equal(t, "of", h.Methods[0].Name)

	diags := sink.All()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.Error, diags[0].Severity)
	assert.Equal(t, "shapes.Pair.helper", diags[0].Subject)
}

func TestCheck_HolderWithoutAnnotation(t *testing.T) {
	sink := &diag.Collector{}
	h := holder(method("of", "Unapply"))
	h.Annotations = nil

	checked := checker.New("Tuple", sink).Check(h)
	assert.Empty(t, checked.Methods)
	assert.Equal(t, 1, sink.Count(diag.Error))
	assert.Equal(t, "shapes.Pair", sink.All()[0].Subject)
}

func TestCheck_RejectedMethods(t *testing.T) {
	repeated := method("twice", "Unapply", "javaslang.match.annotation.Unapply")

	noParams := method("none", "Unapply")
	noParams.Params = nil

	twoParams := method("two", "Unapply")
	twoParams.Params = append(twoParams.Params, model.Named("java.lang.String"))

	notTuple := method("list", "Unapply")
	notTuple.Result = model.Named("java.util.List", model.Named("java.lang.String"))

	noArity := method("raw", "Unapply")
	noArity.Result = model.Named("javaslang.Tuple")

	array := method("array", "Unapply")
	array.Result = model.TypeRef{Name: "javaslang.Tuple1", Dims: 1}

	for _, m := range []model.Method{repeated, noParams, twoParams, notTuple, noArity, array} {
		t.Run(m.Name, func(t *testing.T) {
			sink := &diag.Collector{}
			h := checker.New("Tuple", sink).Check(holder(m))
			assert.Empty(t, h.Methods)
			assert.Equal(t, 1, sink.Count(diag.Error))
		})
	}
}

func TestCheck_PreservesOrder(t *testing.T) {
	h := checker.New("Tuple", nil).Check(holder(
		method("c", "Unapply"),
		method("skip"),
		method("a", "Unapply"),
		method("b", "Unapply"),
	))

	var names []string
	for _, m := range h.Methods {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestCheck_CustomTupleWord(t *testing.T) {
	m := method("of", "Unapply")
	m.Result = model.Named("io.vavr.Product2")

	h := checker.New("Product", nil).Check(holder(m))
	assert.Len(t, h.Methods, 1)
}

func TestCheckAll(t *testing.T) {
	sink := &diag.Collector{}
	other := holder(method("x", "Unapply"))
	other.Name = "Other"
	other.Annotations = nil

	result := checker.New("Tuple", sink).CheckAll([]model.HolderType{holder(method("of", "Unapply")), other})
	require.Len(t, result, 2)
	assert.Len(t, result[0].Methods, 1)
	assert.Empty(t, result[1].Methods)
	assert.Equal(t, 1, sink.Count(diag.Error))
}
