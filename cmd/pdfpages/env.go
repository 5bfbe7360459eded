package main

import (
	"context"
	"io"
	"os"
	"time"

	pdfpages "github.com/alnah/go-pdfpages"
	"github.com/alnah/go-pdfpages/internal/process"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment, and tool discovery.
type Environment struct {
	Now      func() time.Time
	Stdout   io.Writer
	Stderr   io.Writer
	Getenv   func(string) string
	Environ  func() []string
	LookPath process.LookupFunc
	Runner   process.Runner
	DotEnv   string // .env file read for PDFPAGES_* defaults; empty disables

	// Ctx is the parent context for conversions. Nil means context.Background.
	Ctx context.Context
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Getenv:   os.Getenv,
		Environ:  os.Environ,
		LookPath: process.LookPath,
		Runner:   process.ExecRunner{},
		DotEnv:   ".env",
	}
}

// Context returns the parent context for conversions.
func (e *Environment) Context() context.Context {
	if e.Ctx != nil {
		return e.Ctx
	}
	return context.Background()
}

// converterOptions returns the options shared by every command that builds
// a Converter.
func (e *Environment) converterOptions() []pdfpages.Option {
	var opts []pdfpages.Option
	if e.LookPath != nil {
		opts = append(opts, pdfpages.WithLookPath(e.LookPath))
	}
	if e.Runner != nil {
		opts = append(opts, pdfpages.WithRunner(e.Runner))
	}
	return opts
}

// getenv reads a process variable; a nil Getenv reads nothing.
func (e *Environment) getenv(name string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(name)
}
