// Package compose turns an interpreter invocation and an output policy into
// the ordered argument vector handed to a shell.
//
// Program and arguments travel as structured values from the language
// registry; nothing here re-parses a command string.
package compose

import (
	"path/filepath"
	"strings"
	"time"
)

// TimeLayout formats the @time placeholder as YYYY-MM-DD@HHhMMmSSs.
const TimeLayout = "2006-01-02@15h04m05s"

// Time placeholders recognized in an output destination. The longer token is
// replaced first so "@fae.time" never leaves a stray "fae." behind.
var timeTokens = []string{"@fae.time", "@time"}

// Invocation is an executable plus its arguments, before any shell is involved.
type Invocation struct {
	Program string
	Args    []string
}

// OutputPolicy controls redirection of the child's standard output.
// An empty Destination means no redirection.
type OutputPolicy struct {
	Destination string
	Append      bool
}

// Redirect is a resolved output redirection.
type Redirect struct {
	Path   string
	Append bool
}

// Operator returns ">>" for append and ">" for overwrite.
func (r Redirect) Operator() string {
	if r.Append {
		return ">>"
	}
	return ">"
}

// Command is the composed, not yet shell-rendered, command.
type Command struct {
	Program  string
	Args     []string
	Redirect *Redirect
}

// Quoter renders tokens for a particular shell's syntax.
type Quoter interface {
	// Quote always wraps s in the shell's quotes.
	Quote(s string) string
	// QuoteProgram quotes s only when the shell would otherwise split or
	// reinterpret it.
	QuoteProgram(s string) string
}

// Tokens returns the argument vector: program, quoted args, and when
// redirecting, the operator followed by the quoted destination.
func (c Command) Tokens(q Quoter) []string {
	tokens := make([]string, 0, len(c.Args)+3)
	tokens = append(tokens, q.QuoteProgram(c.Program))
	for _, a := range c.Args {
		tokens = append(tokens, q.Quote(a))
	}
	if c.Redirect != nil {
		tokens = append(tokens, c.Redirect.Operator(), q.Quote(c.Redirect.Path))
	}
	return tokens
}

// Line joins Tokens with single spaces.
func (c Command) Line(q Quoter) string {
	return strings.Join(c.Tokens(q), " ")
}

// String renders the command with double quotes, for messages.
func (c Command) String() string {
	return c.Line(DoubleQuoter{})
}

// Composer builds Commands relative to a project root.
type Composer struct {
	// Root is the directory relative paths are resolved against.
	Root string

	// Now returns the current local time. Defaults to time.Now.
	Now func() time.Time
}

// Compose attaches the output policy to inv. It has no failure modes.
func (c *Composer) Compose(inv Invocation, policy OutputPolicy) Command {
	cmd := Command{
		Program: inv.Program,
		Args:    append([]string(nil), inv.Args...),
	}
	if policy.Destination == "" {
		return cmd
	}

	dest := ExpandTime(policy.Destination, c.now())
	cmd.Redirect = &Redirect{
		Path:   ResolvePath(c.Root, dest),
		Append: policy.Append,
	}
	return cmd
}

func (c *Composer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// ExpandTime replaces every time placeholder in s with t formatted per TimeLayout.
func ExpandTime(s string, t time.Time) string {
	stamp := t.Format(TimeLayout)
	for _, tok := range timeTokens {
		s = strings.ReplaceAll(s, tok, stamp)
	}
	return s
}

// ResolvePath joins p onto root unless p is already absolute.
func ResolvePath(root, p string) string {
	if filepath.IsAbs(p) || root == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// DoubleQuoter quotes every token with double quotes. It matches the
// interpreter templates' "path" convention and is used for display.
type DoubleQuoter struct{}

func (DoubleQuoter) Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func (q DoubleQuoter) QuoteProgram(s string) string {
	if NeedsQuoting(s) {
		return q.Quote(s)
	}
	return s
}

// NeedsQuoting reports whether s is empty or contains whitespace or
// characters common shells treat specially.
func NeedsQuoting(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsAny(s, " \t\n\"'`$&|;<>()*?[]{}!#~^%,")
}
