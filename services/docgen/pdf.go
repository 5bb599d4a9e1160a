package docgensvc

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core/notes"
)

// heading sizes in points, indexed by heading level
var pdfHeadingSizes = []float64{20, 16, 14, 13}

func (e *Exporter) RenderPDF(pack notes.StudyPack) (*bytes.Buffer, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("") // core fonts are cp1252

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Comprehensive Notes on: %s", titleCase(pack.Topic))), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	for _, b := range parseBlocks(pack.Markdown) {
		switch b.kind {
		case blockHeading:
			level := b.level
			if level > len(pdfHeadingSizes) {
				level = len(pdfHeadingSizes)
			}
			pdf.SetFont("Helvetica", "B", pdfHeadingSizes[level-1])
			pdf.CellFormat(0, 10, tr(b.text), "", 1, "L", false, 0, "")
		case blockBullet:
			pdf.SetFont("Helvetica", "", 12)
			pdf.MultiCell(0, 5, tr("- "+b.text), "", "L", false)
			pdf.Ln(1)
		default:
			pdf.SetFont("Helvetica", "", 12)
			pdf.MultiCell(0, 5, tr(b.text), "", "L", false)
			pdf.Ln(3)
		}
	}

	var buff bytes.Buffer
	if err := pdf.Output(&buff); err != nil {
		return nil, errors.Wrap(err, "writing pdf")
	}
	return &buff, nil
}
