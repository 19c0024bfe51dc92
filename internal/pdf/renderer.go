// Package pdf renders build configurations as PDF documents.
package pdf

import (
	"fmt"
	"io"
	"time"

	"partforge/internal/domain"

	"github.com/phpdave11/gofpdf"
)

// Renderer writes a configuration export to a stream
type Renderer interface {
	RenderConfiguration(w io.Writer, name string, components []*domain.Component, exportedAt time.Time) error
}

type renderer struct{}

// NewRenderer creates the gofpdf-backed Renderer
func NewRenderer() Renderer {
	return &renderer{}
}

// RenderConfiguration emits a one-page document: centered title, a numbered
// "name (brand)" line per component, and the export date bottom-right.
func (r *renderer) RenderConfiguration(w io.Writer, name string, components []*domain.Component, exportedAt time.Time) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, fmt.Sprintf("Configuration: %s", name), "", 1, "C", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 14)
	doc.CellFormat(0, 8, "Components:", "", 1, "L", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "", 12)
	for i, component := range components {
		line := fmt.Sprintf("%d. %s (%s)", i+1, component.Name, component.Brand)
		doc.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}

	doc.Ln(6)
	doc.SetFont("Helvetica", "I", 10)
	doc.CellFormat(0, 6, fmt.Sprintf("Exported on: %s", exportedAt.Format("2006-01-02")), "", 1, "R", false, 0, "")

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to render configuration pdf: %w", err)
	}
	return nil
}
