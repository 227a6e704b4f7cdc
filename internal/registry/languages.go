// Package registry maps manifest tags to languages and shells.
package registry

import (
	"sort"
	"strings"

	"github.com/bianoble/fae/internal/compose"
	"github.com/bianoble/fae/internal/fault"
	"github.com/bianoble/fae/internal/settings"
)

// FilePlaceholder marks the entry path inside a language command.
const FilePlaceholder = "{file}"

// Language is an interpreter invocation template.
type Language struct {
	Name    string
	Command []string // program, then arguments
}

// Invocation expands the template for entryPath. Extra arguments follow the
// expanded command. The entry path is appended when the template has no
// FilePlaceholder.
func (l Language) Invocation(entryPath string, extra []string) compose.Invocation {
	args := make([]string, 0, len(l.Command)+len(extra))
	placed := false
	for _, tok := range l.Command[1:] {
		if tok == FilePlaceholder {
			tok = entryPath
			placed = true
		}
		args = append(args, tok)
	}
	if !placed {
		args = append(args, entryPath)
	}
	args = append(args, extra...)
	return compose.Invocation{Program: l.Command[0], Args: args}
}

var builtinLanguages = []settings.LanguageDefinition{
	{Name: "python", Aliases: []string{"py"}, Command: []string{"python", FilePlaceholder}},
	{Name: "python3", Aliases: []string{"py3"}, Command: []string{"python3", FilePlaceholder}},
	{Name: "node", Aliases: []string{"nodejs"}, Command: []string{"node", FilePlaceholder}},
}

// LanguageMap resolves language tags.
type LanguageMap struct {
	byTag  map[string]Language
	custom map[string]bool
}

// NewLanguageMap creates a LanguageMap with built-in definitions and
// optional custom overrides.
func NewLanguageMap(customDefs []settings.LanguageDefinition) *LanguageMap {
	m := &LanguageMap{
		byTag:  make(map[string]Language),
		custom: make(map[string]bool),
	}
	for _, def := range builtinLanguages {
		m.add(def)
	}
	for _, def := range customDefs {
		m.add(def)
		m.custom[normalizeTag(def.Name)] = true
	}
	return m
}

func (m *LanguageMap) add(def settings.LanguageDefinition) {
	lang := Language{Name: def.Name, Command: append([]string(nil), def.Command...)}
	m.byTag[normalizeTag(def.Name)] = lang
	for _, a := range def.Aliases {
		m.byTag[normalizeTag(a)] = lang
	}
}

// Resolve returns the language for tag. Matching ignores case and
// surrounding whitespace.
func (m *LanguageMap) Resolve(tag string) (Language, error) {
	lang, ok := m.byTag[normalizeTag(tag)]
	if !ok {
		return Language{}, fault.New(fault.UnsupportedLanguage, tag)
	}
	return lang, nil
}

// KnownTags returns every accepted tag, sorted.
func (m *LanguageMap) KnownTags() []string {
	return sortedKeys(m.byTag)
}

// IsCustom reports whether tag was defined in settings rather than built in.
func (m *LanguageMap) IsCustom(tag string) bool {
	return m.custom[normalizeTag(tag)]
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
