package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks fsys and parses JSON, YAML and HCL binding files in lexical
// path order. When fsys is nil or holds no binding files the manifest is
// empty.
func LoadFS(fsys fs.FS) (*Manifest, error) {
	out := &Manifest{}
	if fsys == nil {
		return out, nil
	}

	seen := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !IsManifestFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("manifest: read %s: %w", path, err)
		}

		bindings, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, binding := range bindings {
			if prev, exists := seen[binding.Name]; exists {
				return fmt.Errorf("manifest: duplicate binding %q (files %s and %s)", binding.Name, prev, path)
			}
			seen[binding.Name] = path
			out.Bindings = append(out.Bindings, binding)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Parse decodes a single binding file. The format is chosen from the source
// extension; unknown extensions are tried as JSON then YAML.
func Parse(data []byte, source string) ([]Binding, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("manifest: file %s is empty", source)
	}

	var (
		doc documentFile
		err error
	)
	switch strings.ToLower(filepath.Ext(source)) {
	case ".hcl":
		doc, err = parseHCL(data, source)
	case ".yaml", ".yml":
		doc, err = parseYAML(data, source)
	default:
		if jsonErr := json.Unmarshal(data, &doc); jsonErr != nil {
			doc, err = parseYAML(data, source)
		}
	}
	if err != nil {
		return nil, err
	}

	out := make([]Binding, 0, len(doc.Bindings))
	for idx, binding := range doc.Bindings {
		normalised, err := normaliseBinding(binding, idx, source)
		if err != nil {
			return nil, err
		}
		out = append(out, normalised)
	}
	return out, nil
}

func parseYAML(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("manifest: parse %s: %w", source, err)
	}
	return doc, nil
}

// IsManifestFile reports whether path carries a supported extension.
func IsManifestFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".hcl":
		return true
	default:
		return false
	}
}

func normaliseBinding(raw Binding, idx int, source string) (Binding, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return Binding{}, fmt.Errorf("manifest: file %s binding #%d has no name", source, idx)
	}

	out := Binding{
		Name:      name,
		Namespace: strings.TrimSpace(raw.Namespace),
		Prefix:    strings.TrimSpace(raw.Prefix),
		Steps:     make([]Step, 0, len(raw.Steps)),
		Source:    source,
	}
	for stepIdx, step := range raw.Steps {
		normalised, err := normaliseStep(step)
		if err != nil {
			return Binding{}, fmt.Errorf("manifest: file %s binding %q step %d: %w", source, name, stepIdx, err)
		}
		out.Steps = append(out.Steps, normalised)
	}
	return out, nil
}

func normaliseStep(raw Step) (Step, error) {
	out := Step{
		Namespace: trimPtr(raw.Namespace),
		Prefix:    trimPtr(raw.Prefix),
	}

	var err error
	if out.Compose, err = normaliseGroups(raw.Compose, "compose"); err != nil {
		return Step{}, err
	}
	if out.Create, err = normaliseGroups(raw.Create, "create"); err != nil {
		return Step{}, err
	}
	for idx, handler := range raw.With {
		value := strings.TrimSpace(handler)
		if value == "" {
			return Step{}, fmt.Errorf("with entry %d is empty", idx)
		}
		out.With = append(out.With, value)
	}

	if len(out.Compose)+len(out.Create) > 0 && len(out.With) == 0 {
		return Step{}, fmt.Errorf("views declared without handlers")
	}
	if len(out.With) > 0 && len(out.Compose)+len(out.Create) == 0 {
		return Step{}, fmt.Errorf("handlers declared without views")
	}
	return out, nil
}

func normaliseGroups(groups [][]string, field string) ([][]string, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	out := make([][]string, 0, len(groups))
	for groupIdx, group := range groups {
		if len(group) == 0 {
			return nil, fmt.Errorf("%s group %d is empty", field, groupIdx)
		}
		cloned := make([]string, len(group))
		for idx, view := range group {
			value := strings.TrimSpace(view)
			if value == "" {
				return nil, fmt.Errorf("%s group %d contains an empty view at index %d", field, groupIdx, idx)
			}
			cloned[idx] = value
		}
		out = append(out, cloned)
	}
	return out, nil
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
