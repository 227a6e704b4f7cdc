package deps

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bianoble/fae/internal/dispatch"
	"github.com/bianoble/fae/internal/fault"
	"github.com/bianoble/fae/internal/registry"
	"github.com/bianoble/fae/internal/transcript"
)

// fakeDispatcher records every spawn and fails commands containing a
// configured substring.
type fakeDispatcher struct {
	specs    []dispatch.Spec
	exitCode map[string]int
	spawnErr map[string]error
	output   []byte
}

func (f *fakeDispatcher) Spawn(ctx context.Context, spec dispatch.Spec) (*dispatch.Result, error) {
	f.specs = append(f.specs, spec)
	line := spec.String()
	for needle, err := range f.spawnErr {
		if strings.Contains(line, needle) {
			return nil, fault.Wrap(fault.SpawnFailure, line, err)
		}
	}
	res := &dispatch.Result{Pid: 1, Output: f.output}
	for needle, code := range f.exitCode {
		if strings.Contains(line, needle) {
			res.ExitCode = code
		}
	}
	return res, nil
}

var posix = registry.Shell{Name: "sh", Executable: "sh", Args: []string{"-c"}, Quoting: registry.QuotePOSIX}

var pip = Templates{
	Latest:    "pip install <pkg>",
	Versioned: "pip install <pkg>==<version>",
}

func TestTemplatesSelect(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    Templates
		dep     Dependency
		want    string
		wantKey string
	}{
		{"latest", pip, Dependency{"requests", "@latest"}, "pip install <pkg>", ""},
		{"versioned", pip, Dependency{"requests", "2.31.0"}, "pip install <pkg>==<version>", ""},
		{"missing latest", Templates{Versioned: "x"}, Dependency{"a", "@latest"}, "", "installationCommandLatest"},
		{"missing versioned", Templates{Latest: "x"}, Dependency{"a", "1.0"}, "", "installationCommandVersion"},
		{"blank versioned", Templates{Versioned: "   "}, Dependency{"a", "1.0"}, "", "installationCommandVersion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.tmpl.Select(tt.dep)
			if tt.wantKey != "" {
				if !errors.Is(err, fault.MissingRequiredField) {
					t.Fatalf("expected MissingRequiredField, got %v", err)
				}
				if fault.SubjectOf(err) != tt.wantKey {
					t.Errorf("subject = %q, want %q", fault.SubjectOf(err), tt.wantKey)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Select() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplatesSelectBlankEntry(t *testing.T) {
	tests := []struct {
		dep     Dependency
		subject string
	}{
		{Dependency{"requests", ""}, "externalDependencies.requests"},
		{Dependency{"requests", "  "}, "externalDependencies.requests"},
		{Dependency{"", "1.0"}, "externalDependencies"},
	}
	for _, tt := range tests {
		_, err := pip.Select(tt.dep)
		if !errors.Is(err, fault.MalformedManifest) {
			t.Errorf("Select(%+v) = %v, want MalformedManifest", tt.dep, err)
			continue
		}
		if fault.SubjectOf(err) != tt.subject {
			t.Errorf("subject = %q, want %q", fault.SubjectOf(err), tt.subject)
		}
	}
}

func TestExpand(t *testing.T) {
	got := Expand("pip  install <pkg>==<version>", Dependency{"requests", "2.31.0"})
	want := []string{"pip", "install", "requests==2.31.0"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Expand() = %v, want %v", got, want)
	}

	// Placeholders are substituted verbatim, even in odd positions.
	got = Expand("npm i <pkg>@<version> --tag=<version>", Dependency{"left-pad", "1.3.0"})
	if got[2] != "left-pad@1.3.0" || got[3] != "--tag=1.3.0" {
		t.Errorf("Expand() = %v", got)
	}
}

func TestFromMapSorted(t *testing.T) {
	deps := FromMap(map[string]string{"zlib": "1", "alpha": "@latest", "mid": "2"})
	var names []string
	for _, d := range deps {
		names = append(names, d.Package)
	}
	if strings.Join(names, ",") != "alpha,mid,zlib" {
		t.Errorf("order = %v", names)
	}
}

func TestInstallRendersThroughShell(t *testing.T) {
	fd := &fakeDispatcher{}
	inst := &Installer{Shell: posix, Dispatcher: fd, Dir: "/proj", Timeout: time.Minute}

	step, err := inst.Install(context.Background(), Dependency{"requests", "2.31.0"}, pip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !step.OK() || step.ExitCode != 0 {
		t.Errorf("step = %+v", step)
	}
	if len(fd.specs) != 1 {
		t.Fatalf("expected 1 spawn, got %d", len(fd.specs))
	}

	spec := fd.specs[0]
	if spec.Path != "sh" || spec.Args[0] != "-c" {
		t.Errorf("spawned %s %v, want sh -c", spec.Path, spec.Args)
	}
	if spec.Args[1] != `pip 'install' 'requests==2.31.0'` {
		t.Errorf("command line = %q", spec.Args[1])
	}
	if spec.Mode != dispatch.Capture {
		t.Errorf("mode = %s, want capture", spec.Mode)
	}
	if spec.Dir != "/proj" || spec.Timeout != time.Minute {
		t.Errorf("dir = %q timeout = %s", spec.Dir, spec.Timeout)
	}
}

func TestInstallAllAbortsOnFirstFailure(t *testing.T) {
	fd := &fakeDispatcher{exitCode: map[string]int{"beta": 1}}
	inst := &Installer{Shell: posix, Dispatcher: fd}

	deps := FromMap(map[string]string{"alpha": "@latest", "beta": "@latest", "gamma": "@latest"})
	report, err := inst.InstallAll(context.Background(), deps, pip)

	if !errors.Is(err, fault.InstallFailure) {
		t.Fatalf("expected InstallFailure, got %v", err)
	}
	if fault.SubjectOf(err) != "beta" {
		t.Errorf("subject = %q, want beta", fault.SubjectOf(err))
	}
	if len(fd.specs) != 2 {
		t.Errorf("expected 2 spawns before abort, got %d", len(fd.specs))
	}
	if len(report.Steps) != 2 || len(report.Failed()) != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestInstallAllKeepGoing(t *testing.T) {
	fd := &fakeDispatcher{
		exitCode: map[string]int{"alpha": 2},
		spawnErr: map[string]error{"gamma": errors.New("exec: not found")},
	}
	inst := &Installer{Shell: posix, Dispatcher: fd, KeepGoing: true}

	deps := FromMap(map[string]string{"alpha": "1.0", "beta": "@latest", "gamma": "@latest"})
	report, err := inst.InstallAll(context.Background(), deps, pip)

	if err == nil {
		t.Fatal("expected joined error")
	}
	if len(fd.specs) != 3 {
		t.Errorf("expected all 3 attempted, got %d", len(fd.specs))
	}
	failed := report.Failed()
	if len(failed) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(failed))
	}
	if failed[0].Dependency.Package != "alpha" || failed[1].Dependency.Package != "gamma" {
		t.Errorf("failures = %+v", failed)
	}
	if !errors.Is(err, fault.SpawnFailure) {
		t.Error("joined error should retain the spawn failure")
	}
	if !strings.Contains(err.Error(), "alpha") || !strings.Contains(err.Error(), "gamma") {
		t.Errorf("error should name both packages: %v", err)
	}
}

func TestInstallAllMissingTemplateStopsEvenWithKeepGoing(t *testing.T) {
	fd := &fakeDispatcher{}
	inst := &Installer{Shell: posix, Dispatcher: fd, KeepGoing: true}

	deps := FromMap(map[string]string{"alpha": "1.0", "beta": "2.0"})
	_, err := inst.InstallAll(context.Background(), deps, Templates{Latest: "pip install <pkg>"})

	if !errors.Is(err, fault.MissingRequiredField) {
		t.Fatalf("expected MissingRequiredField, got %v", err)
	}
	if len(fd.specs) != 0 {
		t.Errorf("nothing should be spawned, got %d", len(fd.specs))
	}
}

func TestInstallAllEmpty(t *testing.T) {
	inst := &Installer{Shell: posix, Dispatcher: &fakeDispatcher{}}
	report, err := inst.InstallAll(context.Background(), nil, Templates{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Steps) != 0 {
		t.Errorf("steps = %d", len(report.Steps))
	}
}

func TestInstallStoresTranscript(t *testing.T) {
	store, err := transcript.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fd := &fakeDispatcher{exitCode: map[string]int{"broken": 1}, output: []byte("ERROR: no matching distribution\n")}
	inst := &Installer{Shell: posix, Dispatcher: fd, Transcripts: store}

	step, err := inst.Install(context.Background(), Dependency{"broken", "@latest"}, pip)
	if err == nil {
		t.Fatal("expected failure")
	}
	if step.Transcript == "" {
		t.Fatal("expected transcript reference")
	}
	if !strings.Contains(err.Error(), step.Transcript) {
		t.Errorf("error should reference transcript: %v", err)
	}

	data, ok, err := store.Get(step.Transcript)
	if err != nil || !ok {
		t.Fatalf("Get() ok=%v err=%v", ok, err)
	}
	if string(data) != "ERROR: no matching distribution\n" {
		t.Errorf("transcript = %q", data)
	}
}

func TestInstallCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inst := &Installer{Shell: posix, Dispatcher: &fakeDispatcher{}, KeepGoing: true}
	deps := FromMap(map[string]string{"alpha": "@latest", "beta": "@latest"})
	report, err := inst.InstallAll(ctx, deps, pip)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(report.Steps) != 1 {
		t.Errorf("sweep should stop at first cancelled step, got %d", len(report.Steps))
	}
}

func TestDependencyString(t *testing.T) {
	if got := (Dependency{"requests", "@latest"}).String(); got != "requests@latest" {
		t.Errorf("String() = %q", got)
	}
	if got := (Dependency{"requests", "2.0"}).String(); got != "requests@2.0" {
		t.Errorf("String() = %q", got)
	}
}
