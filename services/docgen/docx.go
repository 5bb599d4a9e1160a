package docgensvc

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"
	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core/notes"
)

// heading sizes in half-points, indexed by heading level
var docxHeadingSizes = []string{"40", "32", "28", "26"}

func (e *Exporter) RenderDOCX(pack notes.StudyPack) (*bytes.Buffer, error) {
	doc := docx.New().WithDefaultTheme()

	title := doc.AddParagraph()
	title.Justification("center")
	title.AddText(fmt.Sprintf("Comprehensive Notes on: %s", titleCase(pack.Topic))).Size("40").Bold()
	doc.AddParagraph()

	for _, b := range parseBlocks(pack.Markdown) {
		switch b.kind {
		case blockHeading:
			level := b.level
			if level > len(docxHeadingSizes) {
				level = len(docxHeadingSizes)
			}
			p := doc.AddParagraph()
			p.AddText(b.text).Size(docxHeadingSizes[level-1]).Bold()
		case blockBullet:
			doc.AddParagraph().AddText("•  " + b.text)
		default:
			doc.AddParagraph().AddText(b.text)
		}
	}

	var buff bytes.Buffer
	if _, err := doc.WriteTo(&buff); err != nil {
		return nil, errors.Wrap(err, "writing docx")
	}
	return &buff, nil
}
