package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/unapplygen/generr"
	"martianoff/unapplygen/internal/manifest"
	"martianoff/unapplygen/internal/model"
)

const pairManifest = `holders:
  - type: shapes.Pair
    annotations: [Patterns]
    methods:
      - name: of
        annotations: [Unapply]
        params: ["shapes.Pair"]
        result: "javaslang.Tuple2<java.lang.String, java.lang.String>"
  - type: javaslang.Patterns
    annotations: [javaslang.match.annotation.Patterns]
    methods:
      - name: Some
        annotations: [Unapply]
        typeParams: ["T"]
        params: ["javaslang.control.Option.Some<T>"]
        result: "javaslang.Tuple1<T>"
`

func TestParse(t *testing.T) {
	holders, err := manifest.Parse([]byte(pairManifest), "holders.yaml")
	require.NoError(t, err)
	require.Len(t, holders, 2)

	pair := holders[0]
	assert.Equal(t, "shapes", pair.Package)
	assert.Equal(t, "Pair", pair.Name)
	assert.Equal(t, []string{"Patterns"}, pair.Annotations)
	assert.Equal(t, model.Position{File: "holders.yaml", Line: 2, Column: 11}, pair.Pos)

	require.Len(t, pair.Methods, 1)
	of := pair.Methods[0]
	assert.Equal(t, "of", of.Name)
	assert.Equal(t, []string{"Unapply"}, of.Annotations)
	assert.Equal(t, []model.TypeRef{model.Named("shapes.Pair")}, of.Params)
	assert.Equal(t, model.Named("javaslang.Tuple2", model.Named("java.lang.String"), model.Named("java.lang.String")), of.Result)
	assert.Equal(t, model.Position{File: "holders.yaml", Line: 5, Column: 15}, of.Pos)

	some := holders[1].Methods[0]
	assert.Equal(t, []model.TypeParam{{Name: "T"}}, some.TypeParams)
	assert.Equal(t, model.Named("javaslang.control.Option.Some", model.TypeVar("T")), some.Params[0])
	assert.Equal(t, model.Named("javaslang.Tuple1", model.TypeVar("T")), some.Result)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{
			name:     "invalid yaml",
			input:    "holders: [",
			contains: "holders.yaml",
		},
		{
			name:     "missing type",
			input:    "holders:\n  - annotations: [Patterns]\n",
			contains: "holder type is required",
		},
		{
			name:     "generic holder name",
			input:    "holders:\n  - type: shapes.Pair<T>\n",
			contains: "invalid holder type name",
		},
		{
			name:     "missing method name",
			input:    "holders:\n  - type: shapes.Pair\n    methods:\n      - result: javaslang.Tuple0\n",
			contains: "method name is required",
		},
		{
			name:     "missing result",
			input:    "holders:\n  - type: shapes.Pair\n    methods:\n      - name: of\n",
			contains: "result type is required",
		},
		{
			name:     "malformed result",
			input:    "holders:\n  - type: shapes.Pair\n    methods:\n      - name: of\n        result: \"javaslang.Tuple1<\"\n",
			contains: "holders.yaml:5:17",
		},
		{
			name:     "malformed type param",
			input:    "holders:\n  - type: shapes.Pair\n    methods:\n      - name: of\n        typeParams: [\"T extends\"]\n        result: javaslang.Tuple0\n",
			contains: "method of",
		},
		{
			name:     "duplicate holder",
			input:    "holders:\n  - type: shapes.Pair\n  - type: shapes.Pair\n",
			contains: "duplicate holder type shapes.Pair",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Parse([]byte(tt.input), "holders.yaml")
			require.Error(t, err)
			assert.Equal(t, generr.TypeInvalidManifest, generr.TypeOf(err))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	holders, err := manifest.Parse(nil, "empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, holders)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")
	require.NoError(t, os.WriteFile(first, []byte("holders:\n  - type: a.First\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("holders:\n  - type: b.Second\n"), 0o644))

	holders, err := manifest.LoadAll(first, second)
	require.NoError(t, err)
	require.Len(t, holders, 2)
	assert.Equal(t, "a.First", holders[0].QualifiedName())
	assert.Equal(t, "b.Second", holders[1].QualifiedName())
	assert.Equal(t, second, holders[1].Pos.File)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := manifest.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
