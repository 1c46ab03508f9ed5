// Package generator expands the unapply methods of a pattern holder type into
// a Java unit exposing one pattern constructor per method.
package generator

import (
	"fmt"
	"path"
	"strings"

	"martianoff/unapplygen/internal/diag"
	"martianoff/unapplygen/internal/model"
)

// NoMethodsMessage is reported for a holder type without qualifying methods.
const NoMethodsMessage = "No @Unapply methods found."

// Options configures unit generation.
type Options struct {
	// WildcardThreshold is the per-package import count above which an
	// on-demand import is emitted.
	WildcardThreshold int
	// KnownNames are simple names that imports must not claim.
	KnownNames []string
	// ImplicitOrigins are packages visible without an import.
	ImplicitOrigins []string
	Runtime         Runtime
	// BannerTool is the tool name written in the generation banner.
	BannerTool string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		WildcardThreshold: DefaultWildcardThreshold,
		Runtime:           DefaultRuntime(),
		BannerTool:        "JAVASLANG",
	}
}

// Unit is the generated source of one holder type.
type Unit struct {
	// QualifiedName is the name of the holder type the unit was derived from.
	QualifiedName string
	// Path is the slash-separated path of the unit relative to the source root.
	Path   string
	Source string
}

// Generator assembles units. A Generator holds no per-unit state and may be
// used from several goroutines.
type Generator struct {
	opts Options
	sink diag.Sink
}

// New creates a Generator reporting diagnostics to sink.
func New(opts Options, sink diag.Sink) *Generator {
	if sink == nil {
		sink = diag.Discard
	}
	return &Generator{opts: opts, sink: sink}
}

// Generate expands one holder type. It returns nil and reports a warning if
// the holder has no methods. Any error aborts the whole unit.
func (g *Generator) Generate(h model.HolderType) (*Unit, error) {
	if len(h.Methods) == 0 {
		g.sink.Report(diag.Diagnostic{
			Severity: diag.Warning,
			Message:  NoMethodsMessage,
			Subject:  h.QualifiedName(),
			Pos:      h.Pos,
		})
		return nil, nil
	}

	rt := g.opts.Runtime
	im := NewImportManager(h.Package,
		WithWildcardThreshold(g.opts.WildcardThreshold),
		WithKnownNames(g.opts.KnownNames...),
		WithImplicitOrigins(g.opts.ImplicitOrigins...),
	)
	if _, err := im.GetStatic(rt.EntryPoint); err != nil {
		return nil, fmt.Errorf("%s: %w", h.QualifiedName(), err)
	}
	// the unit's own name must never be claimed by an import
	if _, err := im.GetType(h.QualifiedName()); err != nil {
		return nil, fmt.Errorf("%s: %w", h.QualifiedName(), err)
	}

	members, err := g.members(im, h)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.QualifiedName(), err)
	}

	var sb strings.Builder
	if h.Package != "" {
		sb.WriteString("package " + h.Package + ";\n\n")
	}
	sb.WriteString(im.Imports())
	sb.WriteString("\n\n// GENERATED BY " + g.opts.BannerTool + " <<>> derived from " + h.QualifiedName() + "\n\n")
	sb.WriteString("public final class " + h.Name + " {\n\n")
	sb.WriteString("    private " + h.Name + "() {\n")
	sb.WriteString("    }\n\n")
	sb.WriteString(members)
	sb.WriteString("}\n")

	return &Unit{
		QualifiedName: h.QualifiedName(),
		Path:          UnitPath(h),
		Source:        sb.String(),
	}, nil
}

// members expands the unapply methods in declaration order.
func (g *Generator) members(im *ImportManager, h model.HolderType) (string, error) {
	var sb strings.Builder
	for _, m := range h.Methods {
		d, err := Extract(m, g.opts.Runtime.TupleWord)
		if err != nil {
			return "", err
		}
		decl, err := Emit(d, h.QualifiedName(), im, g.opts.Runtime)
		if err != nil {
			return "", fmt.Errorf("method %s: %w", m.Name, err)
		}
		sb.WriteString("    ")
		sb.WriteString(decl.String())
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

// UnitPath returns the source path of the unit generated for h.
func UnitPath(h model.HolderType) string {
	return path.Join(strings.ReplaceAll(h.Package, ".", "/"), h.Name+".java")
}
