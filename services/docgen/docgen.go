package docgensvc

import (
	"strings"
	"unicode"

	"github.com/zuritech/elimu/core/notes"
)

// Exporter renders study packs into DOCX and PDF documents.
type Exporter struct{}

var _ notes.Exporter = (*Exporter)(nil)

func NewExporter() *Exporter { return &Exporter{} }

type (
	blockKind int

	// block is one renderable chunk of a study pack's markdown.
	block struct {
		kind  blockKind
		level int // heading level, 1-based
		text  string
	}
)

const (
	blockText blockKind = iota
	blockHeading
	blockBullet
)

// parseBlocks walks markdown line by line. Only the structures the notes
// prompts produce are recognized; anything else renders as plain text.
func parseBlocks(markdown string) []block {
	var blocks []block
	var para []string

	flush := func() {
		if len(para) > 0 {
			blocks = append(blocks, block{kind: blockText, text: strings.Join(para, " ")})
			para = nil
		}
	}

	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimRight(line, " \t")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flush()
		case strings.HasPrefix(trimmed, "#"):
			flush()
			level := 0
			for level < len(trimmed) && trimmed[level] == '#' {
				level++
			}
			text := stripInline(strings.TrimSpace(trimmed[level:]))
			if text != "" {
				blocks = append(blocks, block{kind: blockHeading, level: level, text: text})
			}
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			flush()
			blocks = append(blocks, block{kind: blockBullet, text: stripInline(trimmed[2:])})
		default:
			para = append(para, stripInline(trimmed))
		}
	}
	flush()
	return blocks
}

// stripInline drops bold/italic/code markers; document styling replaces them.
func stripInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
