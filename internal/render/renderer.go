// Package render produces the fixed PDF artifact for a validated document.
package render

import (
	"fmt"

	"github.com/smallbiznis/invoicegen/internal/document/domain"
)

// RenderInput is the deterministic input used for document rendering.
// Identical input always yields byte-identical output.
type RenderInput struct {
	Payload domain.Payload
	Premium bool
}

// Artifact is the rendered document.
type Artifact struct {
	Bytes []byte
	Size  int
}

type Renderer interface {
	RenderPDF(input RenderInput) (Artifact, error)
}

// Filename suggests the download name for a rendered document.
func Filename(payload domain.Payload) string {
	return fmt.Sprintf("%s-%s.pdf", payload.DocumentType, payload.DocumentNumber)
}

// RenderError names the stage that failed. The renderer never returns partial
// bytes alongside an error.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed at %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
