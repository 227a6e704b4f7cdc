package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ScaffoldOptions fills a new manifest.
type ScaffoldOptions struct {
	Main     string
	Language string
	Shell    string
}

// Scaffold returns the bytes of a starter manifest.
func Scaffold(opts ScaffoldOptions) ([]byte, error) {
	lang := strings.ToLower(strings.TrimSpace(opts.Language))
	m := Manifest{
		Main:     opts.Main,
		Language: lang,
		Shell:    strings.TrimSpace(opts.Shell),
	}
	switch lang {
	case "py", "python", "py3", "python3":
		m.InstallationCommandLatest = "pip install <pkg>"
		m.InstallationCommandVersion = "pip install <pkg>==<version>"
	case "node", "nodejs":
		m.InstallationCommandLatest = "npm install <pkg>"
		m.InstallationCommandVersion = "npm install <pkg>@<version>"
	}

	return encode(m)
}

// encode writes v as indented JSON without escaping <, > and &, which
// install templates use for placeholders.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), nil
}
