// Package manifest loads holder type declarations from YAML.
//
// A manifest lists holder types together with their annotated factory methods:
//
//	holders:
//	  - type: shapes.Pair
//	    annotations: [Patterns]
//	    methods:
//	      - name: of
//	        annotations: [Unapply]
//	        params: ["shapes.Pair"]
//	        result: "javaslang.Tuple2<java.lang.String, java.lang.String>"
package manifest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"martianoff/unapplygen/generr"
	"martianoff/unapplygen/internal/model"
)

type document struct {
	Holders []holderEntry `yaml:"holders"`
}

type holderEntry struct {
	Type        yaml.Node     `yaml:"type"`
	Annotations []string      `yaml:"annotations"`
	Methods     []methodEntry `yaml:"methods"`
}

type methodEntry struct {
	Name        yaml.Node `yaml:"name"`
	Annotations []string  `yaml:"annotations"`
	TypeParams  []string  `yaml:"typeParams"`
	Params      []string  `yaml:"params"`
	Result      yaml.Node `yaml:"result"`
}

// Load reads and parses the manifest at path.
func Load(path string) ([]model.HolderType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data, path)
}

// LoadAll loads several manifests and concatenates their holders in order.
func LoadAll(paths ...string) ([]model.HolderType, error) {
	var holders []model.HolderType
	for _, p := range paths {
		loaded, err := Load(p)
		if err != nil {
			return nil, err
		}
		holders = append(holders, loaded...)
	}
	return holders, nil
}

// Parse decodes manifest data. file is only used for positions and errors.
func Parse(data []byte, file string) ([]model.HolderType, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &generr.ManifestError{
			BaseError: generr.BaseError{Msg: err.Error(), ErrType: generr.TypeInvalidManifest},
			FilePath:  file,
		}
	}

	holders := make([]model.HolderType, 0, len(doc.Holders))
	seen := make(map[string]bool, len(doc.Holders))
	for _, entry := range doc.Holders {
		h, err := toHolder(entry, file)
		if err != nil {
			return nil, err
		}
		if seen[h.QualifiedName()] {
			return nil, errorAt(file, &entry.Type, fmt.Sprintf("duplicate holder type %s", h.QualifiedName()))
		}
		seen[h.QualifiedName()] = true
		holders = append(holders, h)
	}
	return holders, nil
}

func toHolder(entry holderEntry, file string) (model.HolderType, error) {
	name := strings.TrimSpace(entry.Type.Value)
	if name == "" {
		return model.HolderType{}, errorAt(file, &entry.Type, "holder type is required")
	}
	if _, err := model.ParseType(name); err != nil || strings.ContainsAny(name, "<[") {
		return model.HolderType{}, errorAt(file, &entry.Type, fmt.Sprintf("invalid holder type name %q", name))
	}

	h := model.HolderType{
		Package:     model.PackageOf(name),
		Name:        model.SimpleNameOf(name),
		Annotations: entry.Annotations,
		Pos:         position(file, &entry.Type),
	}
	for _, me := range entry.Methods {
		m, err := toMethod(me, file)
		if err != nil {
			return model.HolderType{}, fmt.Errorf("%s: %w", name, err)
		}
		h.Methods = append(h.Methods, m)
	}
	return h, nil
}

func toMethod(entry methodEntry, file string) (model.Method, error) {
	m := model.Method{
		Name:        strings.TrimSpace(entry.Name.Value),
		Annotations: entry.Annotations,
		Pos:         position(file, &entry.Name),
	}
	if m.Name == "" {
		return model.Method{}, errorAt(file, &entry.Name, "method name is required")
	}

	typeParams, err := model.ParseTypeParams(entry.TypeParams)
	if err != nil {
		return model.Method{}, errorAt(file, &entry.Name, fmt.Sprintf("method %s: %v", m.Name, err))
	}
	m.TypeParams = typeParams
	vars := make([]string, len(typeParams))
	for i, tp := range typeParams {
		vars[i] = tp.Name
	}

	for _, p := range entry.Params {
		ref, err := model.ParseType(p, vars...)
		if err != nil {
			return model.Method{}, errorAt(file, &entry.Name, fmt.Sprintf("method %s: %v", m.Name, err))
		}
		m.Params = append(m.Params, ref)
	}

	if strings.TrimSpace(entry.Result.Value) == "" {
		return model.Method{}, errorAt(file, &entry.Name, fmt.Sprintf("method %s: result type is required", m.Name))
	}
	m.Result, err = model.ParseType(entry.Result.Value, vars...)
	if err != nil {
		return model.Method{}, errorAt(file, &entry.Result, fmt.Sprintf("method %s: %v", m.Name, err))
	}
	return m, nil
}

func position(file string, node *yaml.Node) model.Position {
	return model.Position{File: file, Line: node.Line, Column: node.Column}
}

func errorAt(file string, node *yaml.Node, msg string) error {
	return generr.NewManifestErrorAt(file, node.Line, node.Column, msg)
}
