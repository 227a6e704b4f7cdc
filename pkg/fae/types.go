package fae

import (
	"github.com/bianoble/fae/internal/dispatch"
	"github.com/bianoble/fae/internal/engine"
	"github.com/bianoble/fae/internal/fault"
)

// Type aliases re-export engine types as the public API.
// Users import "github.com/bianoble/fae/pkg/fae" and use
// fae.StartResult, fae.InstallResult, etc.

type StartOptions = engine.StartOptions
type StartResult = engine.StartResult
type InstallResult = engine.InstallResult
type InstallDepsOptions = engine.InstallDepsOptions
type InstallDepsResult = engine.InstallDepsResult
type RunResult = engine.RunResult
type StatusResult = engine.StatusResult

type Dispatcher = dispatch.Dispatcher
type DispatchSpec = dispatch.Spec
type DispatchResult = dispatch.Result
type ExitError = dispatch.ExitError

// Error kinds, for use with errors.Is.
const (
	ErrMissingManifest      = fault.MissingManifest
	ErrMalformedManifest    = fault.MalformedManifest
	ErrMissingRequiredField = fault.MissingRequiredField
	ErrUnsupportedLanguage  = fault.UnsupportedLanguage
	ErrUnsupportedShell     = fault.UnsupportedShell
	ErrMalformedLock        = fault.MalformedLock
	ErrSpawnFailure         = fault.SpawnFailure
	ErrInvalidCommand       = fault.InvalidCommand
	ErrInstallFailure       = fault.InstallFailure
)
