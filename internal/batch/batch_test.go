package batch_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/unapplygen/generr"
	"martianoff/unapplygen/internal/batch"
	"martianoff/unapplygen/internal/generator"
	"martianoff/unapplygen/internal/model"
)

func holder(name string, result model.TypeRef) model.HolderType {
	return model.HolderType{
		Package: "shapes",
		Name:    name,
		Methods: []model.Method{{
			Name:   "of",
			Params: []model.TypeRef{model.Named("shapes." + name)},
			Result: result,
		}},
	}
}

func TestRun(t *testing.T) {
	holders := []model.HolderType{
		holder("Circle", model.Named("javaslang.Tuple1", model.Named("java.lang.Double"))),
		holder("Square", model.Named("javaslang.Tuple0")),
		{Package: "shapes", Name: "Empty"},
	}
	gen := generator.New(generator.DefaultOptions(), nil)

	fs, err := batch.Run(context.Background(), holders, gen, batch.Options{Concurrency: 2})
	require.NoError(t, err)

	files := fs.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "shapes/Circle.java", files[0].RelativePath)
	assert.Equal(t, "shapes/Square.java", files[1].RelativePath)
}

func TestRun_IsolatesFailures(t *testing.T) {
	holders := []model.HolderType{
		holder("Circle", model.Named("javaslang.Tuple0")),
		holder("Broken", model.Named("javaslang.TupleX")),
		holder("Square", model.Named("javaslang.Tuple0")),
		holder("AlsoBroken", model.Named("javaslang.Tuple")),
	}
	gen := generator.New(generator.DefaultOptions(), nil)

	fs, err := batch.Run(context.Background(), holders, gen, batch.Options{Concurrency: 4})
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
	assert.Contains(t, err.Error(), "shapes.Broken")
	assert.Contains(t, err.Error(), "shapes.AlsoBroken")
	assert.Equal(t, 2, fs.Len())
}

type countingGenerator struct {
	calls atomic.Int32
}

func (c *countingGenerator) Generate(h model.HolderType) (*generator.Unit, error) {
	c.calls.Add(1)
	return &generator.Unit{QualifiedName: h.QualifiedName(), Path: h.Name + ".java", Source: h.Name}, nil
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var holders []model.HolderType
	for i := 0; i < 10; i++ {
		holders = append(holders, model.HolderType{Name: fmt.Sprintf("H%d", i)})
	}
	gen := &countingGenerator{}

	_, err := batch.Run(ctx, holders, gen, batch.Options{Concurrency: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, gen.calls.Load())
}

func TestRun_DuplicatePaths(t *testing.T) {
	holders := []model.HolderType{{Name: "A"}, {Name: "A"}}

	fs, err := batch.Run(context.Background(), holders, &countingGenerator{}, batch.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already created")
	assert.Equal(t, 1, fs.Len())
}

func TestRun_DefaultOriginStopsRun(t *testing.T) {
	loose := holder("Loose", model.Named("javaslang.Tuple0"))
	loose.Methods[0].Params = []model.TypeRef{model.Named("Unpackaged")}
	gen := generator.New(generator.DefaultOptions(), nil)

	_, err := batch.Run(context.Background(), []model.HolderType{loose}, gen, batch.Options{Concurrency: 1})
	require.Error(t, err)
	assert.Equal(t, generr.TypeDefaultOrigin, generr.TypeOf(err))

	var merr *multierror.Error
	assert.False(t, errors.As(err, &merr))
}
