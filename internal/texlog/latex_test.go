package texlog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLaTeXFileLineErrorBlockCountsOnce(t *testing.T) {
	// -file-line-error locator followed by its context line. The block is
	// one diagnostic, not two.
	stream := "./thesis.tex:42: Undefined control sequence.\n" +
		"l.42 \\badmacro\n"
	res := NewLaTeX(nil, false).Parse(strings.NewReader(stream))
	assert.Equal(t, 1, res.Errors)
	assert.False(t, res.Fatal)
}

func TestLaTeXMissingFileIsFatal(t *testing.T) {
	stream := "! LaTeX Error: File `missing.sty' not found.\n"
	res := NewLaTeX(nil, false).Parse(strings.NewReader(stream))
	assert.True(t, res.Fatal)
	assert.Equal(t, 1, res.Errors)
}

func TestLaTeXCantFindInputIsFatal(t *testing.T) {
	res := NewLaTeX(nil, false).Parse(strings.NewReader("! I can't find file `chapter1.tex'.\n"))
	assert.True(t, res.Fatal)
}

func TestLaTeXWarnings(t *testing.T) {
	stream := strings.Join([]string{
		"This is pdfTeX, Version 3.141592653-2.6-1.40.25 (TeX Live 2023)",
		"LaTeX Warning: Reference `fig:setup' on page 3 undefined on input line 120.",
		"LaTeX Warning: Citation `knuth84' on page 1 undefined on input line 12.",
		"Overfull \\hbox (15.0pt too wide) in paragraph at lines 33--35",
		"Underfull \\vbox (badness 10000) has occurred while \\output is active",
		"Package hyperref Warning: Token not allowed in a PDF string.",
		"Output written on thesis.pdf (12 pages, 45678 bytes).",
	}, "\n") + "\n"
	res := NewLaTeX(nil, false).Parse(strings.NewReader(stream))
	assert.Equal(t, 0, res.Errors)
	assert.Equal(t, 5, res.Warnings)
	assert.False(t, res.Fatal)
}

func TestLaTeXGenericBangErrorConsumesContext(t *testing.T) {
	stream := "! Missing $ inserted.\n" +
		"<inserted text>\n" +
		"LaTeX Warning: There were undefined references.\n"
	res := NewLaTeX(nil, false).Parse(strings.NewReader(stream))
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, 1, res.Warnings)
}

func TestLaTeXEmergencyStop(t *testing.T) {
	res := NewLaTeX(nil, false).Parse(strings.NewReader("! Emergency stop.\n"))
	assert.True(t, res.Fatal)
}
