// Package pdfexport renders a plan as an A4 PDF.
package pdfexport

import (
	"fmt"
	"io"
	"strings"

	"FitAICoach/internal/models"
	"github.com/go-pdf/fpdf"
	"github.com/spf13/afero"
)

// DefaultFileName is used when no output path is given.
const DefaultFileName = "fitness-plan.pdf"

// Layout in millimetres.
const (
	marginLeft  = 20.0
	marginTop   = 20.0
	textWidth   = 170.0
	pageBreakY  = 250.0
	lineHeight  = 5.0
	titleGap    = 15.0
	headingGap  = 10.0
	sectionGap  = 10.0
	fontFamily  = "Helvetica"
	titleSize   = 20
	headingSize = 16
	bodySize    = 10
)

// Title of the document.
const Title = "Your Fitness Plan"

// Build lays out the workout and diet sections. Tips are not exported and
// empty sections are skipped.
func Build(plan models.Plan) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title, true)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	y := marginTop
	pdf.SetFont(fontFamily, "B", titleSize)
	pdf.Text(marginLeft, y, tr(Title))
	y += titleGap

	sections := []struct {
		heading string
		body    string
	}{
		{"Workout Plan", plan.Workout},
		{"Diet Plan", plan.Diet},
	}

	for _, s := range sections {
		if s.body == "" {
			continue
		}
		if y > pageBreakY {
			pdf.AddPage()
			y = marginTop
		}

		pdf.SetFont(fontFamily, "B", headingSize)
		pdf.Text(marginLeft, y, tr(s.heading))
		y += headingGap

		pdf.SetFont(fontFamily, "", bodySize)
		for _, line := range wrap(pdf, encode(tr, s.body), textWidth) {
			if y > pageBreakY {
				pdf.AddPage()
				y = marginTop
			}
			pdf.Text(marginLeft, y, line)
			y += lineHeight
		}
		y += sectionGap
	}

	return pdf
}

// encode converts text to the cp1252 bytes the core fonts draw. Characters
// with no cp1252 glyph, such as emoji, are dropped.
func encode(tr func(string) string, text string) string {
	var b strings.Builder
	for _, r := range text {
		if r == '\r' {
			continue
		}
		ch := tr(string(r))
		if r >= 0x80 && ch == "." {
			continue
		}
		b.WriteString(ch)
	}
	return b.String()
}

// wrap breaks encoded text into lines no wider than width at the current
// font. Text must already be encoded: widths are looked up per byte.
func wrap(pdf *fpdf.Fpdf, text string, width float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		line := ""
		for _, word := range strings.Fields(paragraph) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if pdf.GetStringWidth(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			// A single word wider than the page is cut wherever it overflows.
			for pdf.GetStringWidth(word) > width {
				cut := 1
				for cut < len(word) && pdf.GetStringWidth(word[:cut+1]) <= width {
					cut++
				}
				lines = append(lines, word[:cut])
				word = word[cut:]
			}
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

// Write renders plan to w.
func Write(w io.Writer, plan models.Plan) error {
	pdf := Build(plan)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// WriteFile renders plan into path on fs.
func WriteFile(fs afero.Fs, path string, plan models.Plan) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(f, plan); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
