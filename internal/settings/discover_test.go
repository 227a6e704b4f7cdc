package settings

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestDiscoverPathsAllLevels(t *testing.T) {
	layers := DiscoverPaths(DiscoverOptions{
		ProjectPath: "./.fae.yaml",
		SystemPath:  "/etc/fae/settings.yaml",
		UserPath:    "/home/user/.config/fae/settings.yaml",
	})

	if len(layers) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(layers))
	}
	want := []Level{LevelSystem, LevelUser, LevelProject}
	for i, l := range want {
		if layers[i].Level != l {
			t.Errorf("layers[%d].Level = %q, want %q", i, layers[i].Level, l)
		}
	}
}

func TestDiscoverPathsDeduplication(t *testing.T) {
	samePath, err := filepath.Abs("./.fae.yaml")
	if err != nil {
		t.Fatal(err)
	}

	layers := DiscoverPaths(DiscoverOptions{
		ProjectPath: samePath,
		SystemPath:  samePath,
		UserPath:    "/other/settings.yaml",
	})
	if len(layers) != 2 {
		t.Fatalf("expected 2 layers (deduped), got %d", len(layers))
	}
}

func TestDefaultSystemPath(t *testing.T) {
	p := defaultSystemPath()
	switch runtime.GOOS {
	case "linux", "darwin":
		if p != "/etc/fae/settings.yaml" {
			t.Errorf("system path = %q, want /etc/fae/settings.yaml", p)
		}
	case "windows":
		if filepath.Base(p) != "settings.yaml" {
			t.Errorf("system path = %q", p)
		}
	}
}

func TestEnvNoInherit(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{"", false},
		{"0", false},
		{"1", true},
		{"true", true},
		{" TRUE ", true},
	}
	for _, tt := range tests {
		t.Setenv("FAE_NO_INHERIT", tt.val)
		if got := EnvNoInherit(); got != tt.want {
			t.Errorf("EnvNoInherit() with %q = %v, want %v", tt.val, got, tt.want)
		}
	}
}
