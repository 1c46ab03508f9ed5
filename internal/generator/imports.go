package generator

import (
	"sort"
	"strings"

	"martianoff/unapplygen/generr"
	"martianoff/unapplygen/internal/model"
)

// DefaultWildcardThreshold is the number of imports from one package above
// which they are collapsed into a single on-demand import.
const DefaultWildcardThreshold = 5

// onDemand is the simple name of an on-demand reference like `javaslang.API.Match.*`.
const onDemand = "*"

// ImportManager decides how qualified names are written in a generated unit
// and produces the unit's import section.
//
// Resolution follows these rules:
//  1. A name in the unit's own package is written by its simple name without an
//     import, unless another type already owns that simple name
//  2. A name that is already imported keeps the form it was first given
//  3. A name whose simple name is taken by another type is written fully qualified
//  4. Otherwise the simple name is claimed and an import is recorded
//
// Static and non-static imports are tracked in separate namespaces. An
// ImportManager belongs to a single unit and is not safe for concurrent use.
type ImportManager struct {
	pkg               string
	known             map[string]bool
	implicit          map[string]bool
	wildcardThreshold int

	types   *importSpace
	statics *importSpace
}

// importSpace holds the bindings of one namespace.
type importSpace struct {
	bound   map[string]string // fqn -> display form
	claimed map[string]string // simple name -> fqn
}

func newImportSpace() *importSpace {
	return &importSpace{
		bound:   make(map[string]string),
		claimed: make(map[string]string),
	}
}

// ImportOption configures an ImportManager.
type ImportOption func(*ImportManager)

// WithWildcardThreshold sets the per-package import count above which an
// on-demand import is emitted instead.
func WithWildcardThreshold(n int) ImportOption {
	return func(m *ImportManager) {
		m.wildcardThreshold = n
	}
}

// WithKnownNames reserves simple names that must never be claimed by an import.
func WithKnownNames(names ...string) ImportOption {
	return func(m *ImportManager) {
		for _, n := range names {
			m.known[n] = true
		}
	}
}

// WithImplicitOrigins declares packages whose types are visible without an
// import, such as java.lang.
func WithImplicitOrigins(pkgs ...string) ImportOption {
	return func(m *ImportManager) {
		for _, p := range pkgs {
			m.implicit[p] = true
		}
	}
}

// NewImportManager creates an ImportManager for a unit declared in pkg.
func NewImportManager(pkg string, opts ...ImportOption) *ImportManager {
	m := &ImportManager{
		pkg:               pkg,
		known:             make(map[string]bool),
		implicit:          make(map[string]bool),
		wildcardThreshold: DefaultWildcardThreshold,
		types:             newImportSpace(),
		statics:           newImportSpace(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetType returns the form in which a type should be written, registering a
// non-static import if needed. A generic suffix (`<...>`) is kept verbatim.
func (m *ImportManager) GetType(fqn string) (string, error) {
	return m.resolve(fqn, m.types)
}

// GetStatic is like GetType for static members.
func (m *ImportManager) GetStatic(fqn string) (string, error) {
	return m.resolve(fqn, m.statics)
}

func (m *ImportManager) resolve(fqn string, space *importSpace) (string, error) {
	raw, generics := splitGenerics(fqn)
	name, err := m.simplify(raw, space)
	if err != nil {
		return "", err
	}
	return name + generics, nil
}

func (m *ImportManager) simplify(fqn string, space *importSpace) (string, error) {
	simpleName := model.SimpleNameOf(fqn)
	pkg := model.PackageOf(fqn)
	switch {
	case pkg == "" && m.pkg != "":
		return "", generr.NewDefaultOriginError(simpleName, m.pkg)
	case pkg == m.pkg:
		if m.known[simpleName] || space.isClaimedByOther(simpleName, fqn) {
			space.bound[fqn] = fqn
			return fqn, nil
		}
		space.reserve(simpleName, fqn)
		return simpleName, nil
	}
	if display, ok := space.bound[fqn]; ok {
		return display, nil
	}
	if simpleName == onDemand {
		space.bound[fqn] = simpleName
		return simpleName, nil
	}
	if m.known[simpleName] || space.isClaimedByOther(simpleName, fqn) {
		space.bound[fqn] = fqn
		return fqn, nil
	}
	space.claimed[simpleName] = fqn
	if m.implicit[pkg] {
		return simpleName, nil
	}
	space.bound[fqn] = simpleName
	return simpleName, nil
}

// reserve claims a simple name for a type that needs no import.
func (s *importSpace) reserve(simpleName, fqn string) {
	if _, ok := s.claimed[simpleName]; !ok {
		s.claimed[simpleName] = fqn
	}
}

func (s *importSpace) isClaimedByOther(simpleName, fqn string) bool {
	owner, ok := s.claimed[simpleName]
	return ok && owner != fqn
}

// imports returns the names that need an import line: bindings written by
// their simple name.
func (s *importSpace) imports() []string {
	var result []string
	for fqn, display := range s.bound {
		if display != fqn {
			result = append(result, fqn)
		}
	}
	return result
}

// Imports returns the import section: static imports, a blank line, then
// non-static imports, each group sorted.
func (m *ImportManager) Imports() string {
	staticSection := optimizeImports(m.statics.imports(), true, m.wildcardThreshold)
	typeSection := optimizeImports(m.types.imports(), false, m.wildcardThreshold)
	return staticSection + "\n\n" + typeSection
}

// optimizeImports collapses packages with more than threshold imports into an
// on-demand import and renders the sorted import lines.
func optimizeImports(imports []string, isStatic bool, threshold int) string {
	counts := make(map[string]int)
	for _, fqn := range imports {
		counts[model.PackageOf(fqn)]++
	}

	result := make([]string, 0, len(imports))
	for _, fqn := range imports {
		if counts[model.PackageOf(fqn)] <= threshold {
			result = append(result, fqn)
		}
	}
	for pkg, count := range counts {
		if count > threshold {
			result = append(result, pkg+"."+onDemand)
		}
	}
	sort.Strings(result)

	prefix := "import "
	if isStatic {
		prefix += "static "
	}
	lines := make([]string, len(result))
	for i, fqn := range result {
		lines[i] = prefix + fqn + ";"
	}
	return strings.Join(lines, "\n")
}

func splitGenerics(fqn string) (string, string) {
	if i := strings.IndexByte(fqn, '<'); i >= 0 {
		return fqn[:i], fqn[i:]
	}
	return fqn, ""
}
