package template

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed builtin/*.json
var builtinFS embed.FS

// Builtin loads one of the templates shipped with artworker.
func Builtin(name string) (*Template, error) {
	f, err := builtinFS.Open(path.Join("builtin", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("%w: no built-in template %q (have %s)", ErrBinding, name, strings.Join(BuiltinNames(), ", "))
	}
	defer f.Close()

	return Load(name, f)
}

// BuiltinSource returns the JSON source of a shipped template, as a
// starting point for custom templates.
func BuiltinSource(name string) ([]byte, error) {
	data, err := builtinFS.ReadFile(path.Join("builtin", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("%w: no built-in template %q", ErrBinding, name)
	}
	return data, nil
}

// BuiltinNames returns the names of the shipped templates, sorted.
func BuiltinNames() []string {
	entries, _ := builtinFS.ReadDir("builtin")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}
