package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/unapplygen/generr"
	"martianoff/unapplygen/internal/model"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		vars     []string
		expected model.TypeRef
	}{
		{
			name:     "qualified",
			expr:     "java.lang.String",
			expected: model.Named("java.lang.String"),
		},
		{
			name:     "primitive",
			expr:     "int",
			expected: model.Named("int"),
		},
		{
			name: "generic tuple",
			expr: "javaslang.Tuple2<T, java.util.List<java.lang.String>>",
			vars: []string{"T"},
			expected: model.Named("javaslang.Tuple2",
				model.TypeVar("T"),
				model.Named("java.util.List", model.Named("java.lang.String")),
			),
		},
		{
			name:     "undeclared variable stays a name",
			expr:     "javaslang.Tuple1<U>",
			vars:     []string{"T"},
			expected: model.Named("javaslang.Tuple1", model.Named("U")),
		},
		{
			name:     "array",
			expr:     "java.lang.String[][]",
			expected: model.TypeRef{Name: "java.lang.String", Dims: 2},
		},
		{
			name: "bounded wildcard",
			expr: "java.util.List<? extends java.lang.Number>",
			expected: model.Named("java.util.List", model.TypeRef{
				Name:  model.Wildcard,
				Bound: &model.TypeRef{Name: "java.lang.Number"},
			}),
		},
		{
			name:     "nested class and whitespace",
			expr:     "  javaslang.control.Option.Some < T >  ",
			vars:     []string{"T"},
			expected: model.Named("javaslang.control.Option.Some", model.TypeVar("T")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := model.ParseType(tt.expr, tt.vars...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref)
		})
	}
}

func TestParseType_Errors(t *testing.T) {
	for _, expr := range []string{
		"",
		"java.util.List<",
		"java.util.List<java.lang.String",
		"java.util.Map<K V>",
		"java.lang.String extra",
		"java.util.List<? super java.lang.Number>",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := model.ParseType(expr, "K", "V")
			require.Error(t, err)
			assert.Equal(t, generr.TypeSyntax, generr.TypeOf(err))
		})
	}
}

func TestParseTypeParams(t *testing.T) {
	params, err := model.ParseTypeParams([]string{
		"T extends java.lang.Comparable<T>",
		"U",
		"R extends java.lang.Number & java.io.Serializable",
	})
	require.NoError(t, err)
	require.Len(t, params, 3)

	assert.Equal(t, "T", params[0].Name)
	assert.Equal(t, []model.TypeRef{model.Named("java.lang.Comparable", model.TypeVar("T"))}, params[0].Bounds)
	assert.Equal(t, "U", params[1].Name)
	assert.Empty(t, params[1].Bounds)
	assert.Len(t, params[2].Bounds, 2)
	assert.Equal(t, "R extends java.lang.Number & java.io.Serializable", params[2].String())
}

func TestParseTypeParams_Errors(t *testing.T) {
	_, err := model.ParseTypeParams([]string{"<T>"})
	assert.Error(t, err)

	_, err = model.ParseTypeParams([]string{"a.T"})
	assert.Error(t, err)
}

func TestTypeRefString(t *testing.T) {
	ref, err := model.ParseType("java.util.Map<K, java.util.List<? extends V>>[]", "K", "V")
	require.NoError(t, err)
	assert.Equal(t, "java.util.Map<K, java.util.List<? extends V>>[]", ref.String())
}

func TestNameHelpers(t *testing.T) {
	assert.Equal(t, "java.lang", model.PackageOf("java.lang.String"))
	assert.Equal(t, "String", model.SimpleNameOf("java.lang.String"))
	assert.Equal(t, "", model.PackageOf("String"))
	assert.Equal(t, "String", model.SimpleNameOf("String"))

	h := model.HolderType{Package: "shapes", Name: "Pair"}
	assert.Equal(t, "shapes.Pair", h.QualifiedName())
	assert.Equal(t, "Pair", model.HolderType{Name: "Pair"}.QualifiedName())
}

func TestAnnotated(t *testing.T) {
	m := model.Method{Annotations: []string{"javaslang.match.annotation.Unapply", "Deprecated"}}
	assert.Equal(t, 1, m.Annotated("Unapply"))
	assert.Equal(t, 0, m.Annotated("Patterns"))
}
