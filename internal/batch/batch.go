// Package batch generates the units of many holder types in parallel.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"martianoff/unapplygen/generr"
	"martianoff/unapplygen/internal/generator"
	"martianoff/unapplygen/internal/genfs"
	"martianoff/unapplygen/internal/model"
)

// UnitGenerator expands a single holder type. *generator.Generator
// implements it.
type UnitGenerator interface {
	Generate(h model.HolderType) (*generator.Unit, error)
}

// Options configures a batch run.
type Options struct {
	// Concurrency bounds the number of holders generated at once.
	Concurrency int
	Logger      *slog.Logger
}

// Run generates a unit for every holder. Holders fail independently: the
// returned FS holds every unit that could be generated and the error lists
// each failed holder. A DefaultOriginError is the exception and stops the
// whole run, as does cancelling ctx.
func Run(ctx context.Context, holders []model.HolderType, gen UnitGenerator, opts Options) (*genfs.FS, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	out := genfs.New()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	var result *multierror.Error
	fail := func(err error) {
		mu.Lock()
		result = multierror.Append(result, err)
		mu.Unlock()
	}

	for _, h := range holders {
		h := h
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			unit, err := gen.Generate(h)
			if err != nil {
				logger.Debug("holder failed", "holder", h.QualifiedName(), "error", err)
				if generr.TypeOf(err) == generr.TypeDefaultOrigin {
					return err
				}
				fail(err)
				return nil
			}
			if unit == nil {
				logger.Debug("holder skipped", "holder", h.QualifiedName())
				return nil
			}
			if err := out.Add(unit.QualifiedName, genfs.File{RelativePath: unit.Path, Data: []byte(unit.Source)}); err != nil {
				fail(fmt.Errorf("%s: %w", h.QualifiedName(), err))
				return nil
			}
			logger.Debug("unit generated", "holder", h.QualifiedName(), "path", unit.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, result.ErrorOrNil()
}
