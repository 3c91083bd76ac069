package main

import (
	"io"
	"os"
	"time"

	chandragen "github.com/thanosengine/ChandraGen"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now      func() time.Time
	Stdout   io.Writer
	Stderr   io.Writer
	Registry *chandragen.Registry
}

// DefaultEnv returns the production environment with the built-in formatters.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Registry: chandragen.DefaultRegistry(),
	}
}
