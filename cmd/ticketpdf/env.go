package main

import (
	"io"
	"os"

	ticketpdf "github.com/alnah/go-ticketpdf"
)

// Environment holds injectable dependencies for testability.
// Nil collaborators are replaced by the production implementations.
type Environment struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Renderer  ticketpdf.Renderer  // nil = browser chosen by render.engine
	Merger    ticketpdf.Merger    // nil = pdfcpu
	Publisher ticketpdf.Publisher // nil = S3 when publish.enabled
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
