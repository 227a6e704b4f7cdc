package lock

import "encoding/json"

// FileName is the lock file kept next to the manifest.
const FileName = "fae.lock.json"

// Lockfile records whether the dependency bootstrap still has to run.
type Lockfile struct {
	FirstRun bool `json:"firstRun"`
}

// Default returns the record materialized when no lock file exists.
func Default() *Lockfile {
	return &Lockfile{FirstRun: true}
}

// UnmarshalJSON reads a missing firstRun key as true, so a hand-edited
// "{}" still triggers installation.
func (lf *Lockfile) UnmarshalJSON(data []byte) error {
	var raw struct {
		FirstRun *bool `json:"firstRun"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	lf.FirstRun = raw.FirstRun == nil || *raw.FirstRun
	return nil
}

// State is the bootstrap state of a project.
type State int

const (
	// Uninitialized means no lock file existed before this invocation.
	Uninitialized State = iota
	// PendingInstall means dependencies have not been installed successfully.
	PendingInstall
	// Installed is stable until the lock file is deleted or edited.
	Installed
	// Unknown means the lock file exists but could not be read.
	Unknown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case PendingInstall:
		return "pending-install"
	case Installed:
		return "installed"
	case Unknown:
		return "unknown"
	}
	return "unknown"
}

// NeedsInstall reports whether start must run the dependency sweep first.
func (s State) NeedsInstall() bool {
	return s != Installed
}

// State returns the state recorded by lf.
func (lf *Lockfile) State() State {
	if lf.FirstRun {
		return PendingInstall
	}
	return Installed
}
