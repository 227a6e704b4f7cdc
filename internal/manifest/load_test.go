package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bianoble/fae/internal/fault"
)

const exampleManifest = `{
  "main": "src/main.py",
  "args": ["--verbose"],
  "scripts": {"test": "pytest -q"},
  "language": "py3",
  "shell": "cmd",
  "sendOutputToFile": "logs/run-@time.log",
  "appendOutputForConsecutiveRuns": true,
  "externalDependencies": {"requests": "2.31.0", "rich": "@latest"},
  "installationCommandLatest": "pip install <pkg>",
  "installationCommandVersion": "pip install <pkg>==<version>",
  "installTimeout": "2m"
}
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidManifest(t *testing.T) {
	m, err := Load(writeManifest(t, exampleManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Main != "src/main.py" || m.Language != "py3" {
		t.Errorf("main/language = %q/%q", m.Main, m.Language)
	}
	if len(m.Args) != 1 || m.Args[0] != "--verbose" {
		t.Errorf("args = %v", m.Args)
	}
	if m.Scripts["test"] != "pytest -q" {
		t.Errorf("scripts = %v", m.Scripts)
	}
	if m.ExternalDependencies["rich"] != LatestVersion {
		t.Errorf("dependencies = %v", m.ExternalDependencies)
	}
	p := m.OutputPolicy()
	if p.Destination != "logs/run-@time.log" || !p.Append {
		t.Errorf("policy = %+v", p)
	}
	if d, ok := m.Timeout(); !ok || d != 2*time.Minute {
		t.Errorf("timeout = %v, %v", d, ok)
	}
	if err := m.RequireStart(); err != nil {
		t.Errorf("RequireStart: %v", err)
	}
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	if !errors.Is(err, fault.MissingManifest) {
		t.Fatalf("err = %v, want MissingManifest", err)
	}
	if !strings.Contains(err.Error(), FileName) {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestLoadDirectoryIsMissingManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), FileName)
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); !errors.Is(err, fault.MissingManifest) {
		t.Fatalf("err = %v, want MissingManifest", err)
	}
}

func TestLoadMalformedManifest(t *testing.T) {
	tests := []string{
		`{"main": `,
		`not json at all`,
		`{"main": 5}`,
		`{"externalDependencies": ["requests"]}`,
		`{"installTimeout": "soon"}`,
	}
	for _, content := range tests {
		_, err := Load(writeManifest(t, content))
		if !errors.Is(err, fault.MalformedManifest) {
			t.Errorf("Load(%s) err = %v, want MalformedManifest", content, err)
		}
	}
}

func TestRequireStart(t *testing.T) {
	tests := []struct {
		m    Manifest
		want string
	}{
		{Manifest{Language: "py"}, KeyMain},
		{Manifest{Main: "  ", Language: "py"}, KeyMain},
		{Manifest{Main: "main.py"}, KeyLanguage},
	}
	for _, tt := range tests {
		err := tt.m.RequireStart()
		if !errors.Is(err, fault.MissingRequiredField) {
			t.Errorf("RequireStart(%+v) = %v, want MissingRequiredField", tt.m, err)
			continue
		}
		if fault.SubjectOf(err) != tt.want {
			t.Errorf("subject = %q, want %q", fault.SubjectOf(err), tt.want)
		}
	}
}

func TestOutputPolicyDefaultsToOverwrite(t *testing.T) {
	m := &Manifest{SendOutputToFile: "out.log"}
	if m.OutputPolicy().Append {
		t.Error("unset appendOutputForConsecutiveRuns should overwrite")
	}
	if m.Wait() {
		t.Error("unset waitForExit should not wait")
	}
}

func TestLoadRejectsCommentsAndTrailingCommas(t *testing.T) {
	tests := map[string]string{
		"trailing comma": `{"main": "a.py", "language": "py",}`,
		"line comment":   "// entry point\n{\"main\": \"a.py\", \"language\": \"py\"}",
		"block comment":  `{"main": "a.py", /* py3 */ "language": "py"}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			m, err := Load(writeManifest(t, content))
			if !errors.Is(err, fault.MalformedManifest) {
				t.Fatalf("Load() = %+v, %v; want MalformedManifest", m, err)
			}
			if !strings.Contains(err.Error(), FileName) {
				t.Errorf("error should name the file: %v", err)
			}
		})
	}
}

func TestLoadAllowsEmptyScriptAndVersion(t *testing.T) {
	m, err := Load(writeManifest(t, `{
  "main": "a.py",
  "language": "py",
  "scripts": {"noop": ""},
  "externalDependencies": {"x": ""}
}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.RequireStart(); err != nil {
		t.Errorf("RequireStart: %v", err)
	}
	if errs := Validate(m); len(errs) != 0 {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestSetDependencyRoundTrip(t *testing.T) {
	path := writeManifest(t, `{
  "main": "main.py",
  "language": "py",
  "customKey": {"kept": true},
  "installationCommandVersion": "pip install <pkg>==<version>"
}`)

	m, err := SetDependency(path, "mypkg", "2.0.0")
	if err != nil {
		t.Fatalf("SetDependency: %v", err)
	}
	if m.ExternalDependencies["mypkg"] != "2.0.0" {
		t.Errorf("returned manifest deps = %v", m.ExternalDependencies)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after SetDependency: %v", err)
	}
	if reloaded.ExternalDependencies["mypkg"] != "2.0.0" {
		t.Errorf("deps = %v", reloaded.ExternalDependencies)
	}
	if reloaded.InstallationCommandVersion != "pip install <pkg>==<version>" {
		t.Errorf("template changed: %q", reloaded.InstallationCommandVersion)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), `\u003c`) {
		t.Errorf("placeholders were HTML-escaped:\n%s", data)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["customKey"]; !ok {
		t.Error("unknown keys must be preserved")
	}
}

func TestSetDependencyUpdatesExisting(t *testing.T) {
	path := writeManifest(t, `{"externalDependencies": {"a": "1.0", "b": "@latest"}}`)
	if _, err := SetDependency(path, "a", "2.0"); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.ExternalDependencies["a"] != "2.0" || m.ExternalDependencies["b"] != LatestVersion {
		t.Errorf("deps = %v", m.ExternalDependencies)
	}
}

func TestSetDependencyMissingManifest(t *testing.T) {
	_, err := SetDependency(filepath.Join(t.TempDir(), FileName), "a", "1")
	if !errors.Is(err, fault.MissingManifest) {
		t.Fatalf("err = %v, want MissingManifest", err)
	}
}

func TestSetDependencyMalformedManifest(t *testing.T) {
	for _, content := range []string{
		`{"externalDependencies": 3}`,
		`{"main": "a.py",}`,
		"// note\n{}",
	} {
		path := writeManifest(t, content)
		_, err := SetDependency(path, "a", "1")
		if !errors.Is(err, fault.MalformedManifest) {
			t.Errorf("SetDependency(%q) err = %v, want MalformedManifest", content, err)
		}
		data, _ := os.ReadFile(path)
		if string(data) != content {
			t.Errorf("malformed manifest was rewritten:\n%s", data)
		}
	}
}

func TestScaffold(t *testing.T) {
	data, err := Scaffold(ScaffoldOptions{Main: "index.js", Language: "node"})
	if err != nil {
		t.Fatal(err)
	}
	m, err := Parse(data)
	if err != nil {
		t.Fatalf("scaffold is not a valid manifest: %v", err)
	}
	if m.Main != "index.js" || m.Language != "node" {
		t.Errorf("manifest = %+v", m)
	}
	if m.InstallationCommandVersion != "npm install <pkg>@<version>" {
		t.Errorf("version template = %q", m.InstallationCommandVersion)
	}
	if strings.Contains(string(data), `\u003c`) {
		t.Error("scaffold should not escape placeholders")
	}
}

func TestScaffoldNormalizesLanguage(t *testing.T) {
	for _, lang := range []string{"PY", " node ", "Python3"} {
		data, err := Scaffold(ScaffoldOptions{Main: "main", Language: lang})
		if err != nil {
			t.Fatal(err)
		}
		m, err := Parse(data)
		if err != nil {
			t.Fatal(err)
		}
		if m.Language != strings.ToLower(strings.TrimSpace(lang)) {
			t.Errorf("Scaffold(%q) language = %q", lang, m.Language)
		}
		if m.InstallationCommandLatest == "" || m.InstallationCommandVersion == "" {
			t.Errorf("Scaffold(%q) has no install templates: %+v", lang, m)
		}
	}
}
