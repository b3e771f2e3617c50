package variant

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed definitions/*.yaml
var embeddedDefinitions embed.FS

// EmbeddedFS returns the built-in variant definitions.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedDefinitions, "definitions")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

type definitionFile struct {
	Name               string              `json:"name" yaml:"name"`
	Title              string              `json:"title" yaml:"title"`
	Description        string              `json:"description" yaml:"description"`
	Handlers           string              `json:"handlers" yaml:"handlers"`
	DynamicsPath       string              `json:"dynamicsPath" yaml:"dynamicsPath"`
	SharedHandlersPath string              `json:"sharedHandlersPath" yaml:"sharedHandlersPath"`
	Flags              []Flag              `json:"flags" yaml:"flags"`
	Vocabularies       map[string][]string `json:"vocabularies" yaml:"vocabularies"`
}

// LoadFS parses every .yaml, .yml and .json definition in fsys, sorted by
// path. A nil fsys yields no variants.
func LoadFS(fsys fs.FS) ([]Variant, error) {
	if fsys == nil {
		return nil, nil
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(p) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("variant: walk definitions: %w", err)
	}
	sort.Strings(paths)

	out := make([]Variant, 0, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("variant: read %s: %w", p, err)
		}
		v, err := Parse(data, p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// LoadDir parses definitions stored on disk.
func LoadDir(dir string) ([]Variant, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("variant: stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("variant: %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir))
}

// Parse decodes a single JSON or YAML definition.
func Parse(data []byte, source string) (Variant, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Variant{}, fmt.Errorf("variant: file %s is empty", source)
	}

	var raw definitionFile
	if strings.EqualFold(path.Ext(source), ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Variant{}, fmt.Errorf("variant: parse %s: %w", source, err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return Variant{}, fmt.Errorf("variant: parse %s: %w", source, err)
	}

	v := Variant{
		Name:               strings.TrimSpace(raw.Name),
		Title:              strings.TrimSpace(raw.Title),
		Description:        sanitizeDescription(raw.Description),
		Presentations:      trimAll(raw.Vocabularies[FieldPresentation]),
		Organizations:      trimAll(raw.Vocabularies[FieldOrganization]),
		Authorities:        trimAll(raw.Vocabularies[FieldAuthorities]),
		Actions:            trimAll(raw.Vocabularies[FieldActions]),
		Placement:          HandlerPlacement(strings.TrimSpace(raw.Handlers)),
		DynamicsPath:       strings.TrimSpace(raw.DynamicsPath),
		SharedHandlersPath: strings.TrimSpace(raw.SharedHandlersPath),
		Flags:              append([]Flag(nil), raw.Flags...),
		Source:             source,
	}
	for key := range raw.Vocabularies {
		if _, ok := v.Vocabulary(key); !ok {
			return Variant{}, fmt.Errorf("variant: file %s declares unknown vocabulary %q", source, key)
		}
	}
	for i := range v.Flags {
		v.Flags[i].Name = strings.TrimSpace(v.Flags[i].Name)
		if v.Flags[i].Label == "" {
			v.Flags[i].Label = v.Flags[i].Name
		}
	}
	if v.Title == "" {
		v.Title = v.Name
	}

	if err := v.Validate(); err != nil {
		return Variant{}, fmt.Errorf("variant: file %s: %w", source, err)
	}
	return v, nil
}

func isDefinitionFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, strings.TrimSpace(value))
	}
	return out
}
