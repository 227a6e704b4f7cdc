package compose

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

var stampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}@\d{2}h\d{2}m\d{2}s`)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 7, 5, 2, 0, time.Local)
}

func TestComposeWithoutPolicy(t *testing.T) {
	c := &Composer{Root: "/proj", Now: fixedClock}
	cmd := c.Compose(Invocation{Program: "python", Args: []string{"/proj/main.py"}}, OutputPolicy{})

	got := cmd.Tokens(DoubleQuoter{})
	want := []string{"python", `"/proj/main.py"`}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("tokens = %q, want %q", got, want)
	}
	if cmd.Redirect != nil {
		t.Error("expected no redirect")
	}
}

func TestComposeOverwriteWithTimestamp(t *testing.T) {
	root := t.TempDir()
	c := &Composer{Root: root, Now: fixedClock}
	cmd := c.Compose(Invocation{Program: "node", Args: []string{"app.js"}}, OutputPolicy{Destination: "out-@time.log"})

	tokens := cmd.Tokens(DoubleQuoter{})
	if len(tokens) != 4 {
		t.Fatalf("tokens = %q, want 4", tokens)
	}
	if tokens[2] != ">" {
		t.Errorf("operator = %q, want >", tokens[2])
	}
	last := tokens[3]
	if !strings.HasPrefix(last, `"`) || !strings.HasSuffix(last, `"`) {
		t.Errorf("destination not quoted: %s", last)
	}
	if strings.Contains(last, "@time") {
		t.Errorf("destination still has placeholder: %s", last)
	}
	if !stampPattern.MatchString(last) {
		t.Errorf("destination has no timestamp: %s", last)
	}
	want := filepath.Join(root, "out-2024-03-09@07h05m02s.log")
	if cmd.Redirect.Path != want {
		t.Errorf("path = %q, want %q", cmd.Redirect.Path, want)
	}
}

func TestComposeAppend(t *testing.T) {
	c := &Composer{Root: "/proj", Now: fixedClock}
	cmd := c.Compose(Invocation{Program: "node", Args: []string{"app.js"}}, OutputPolicy{Destination: "run.log", Append: true})
	tokens := cmd.Tokens(DoubleQuoter{})
	if tokens[len(tokens)-2] != ">>" {
		t.Errorf("operator = %q, want >>", tokens[len(tokens)-2])
	}
}

func TestExpandTimeTokens(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"out.log", "out.log"},
		{"out-@time.log", "out-2024-03-09@07h05m02s.log"},
		{"logs/@fae.time.txt", "logs/2024-03-09@07h05m02s.txt"},
		{"@time-@time", "2024-03-09@07h05m02s-2024-03-09@07h05m02s"},
	}
	for _, tt := range tests {
		if got := ExpandTime(tt.in, fixedClock()); got != tt.want {
			t.Errorf("ExpandTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolvePathKeepsAbsolute(t *testing.T) {
	abs, _ := filepath.Abs(filepath.Join(t.TempDir(), "x.log"))
	if got := ResolvePath("/elsewhere", abs); got != abs {
		t.Errorf("ResolvePath = %q, want %q", got, abs)
	}
}

func TestComposeDoesNotAliasArgs(t *testing.T) {
	args := []string{"a"}
	c := &Composer{}
	cmd := c.Compose(Invocation{Program: "p", Args: args}, OutputPolicy{})
	cmd.Args[0] = "b"
	if args[0] != "a" {
		t.Error("Compose must copy the invocation args")
	}
}

func TestProgramQuotedOnlyWhenNeeded(t *testing.T) {
	q := DoubleQuoter{}
	if got := q.QuoteProgram("python3"); got != "python3" {
		t.Errorf("QuoteProgram(python3) = %q", got)
	}
	if got := q.QuoteProgram(`C:\Program Files\node.exe`); got != `"C:\Program Files\node.exe"` {
		t.Errorf("QuoteProgram with space = %q", got)
	}
}
