package texlog

import (
	"io"
	"regexp"
)

// makeglossaries is a wrapper script around makeindex/xindy, so its output
// interleaves its own status lines with the wrapped tool's diagnostics.
var (
	glossariesBanner  = regexp.MustCompile(`^makeglossaries version`)
	glossariesNoExec  = regexp.MustCompile(`^\*\*\* unable to execute: (.*)`)
	glossariesNoFile  = regexp.MustCompile(`^\*\*\* No file '(.*)'`)
	glossariesAdded   = regexp.MustCompile(`^added glossary type '(.*)'`)
	glossariesWarning = regexp.MustCompile(`^Warning: (.*)`)
	glossariesError   = regexp.MustCompile(`^Error: (.*)`)
	glossariesEmpty   = regexp.MustCompile(`^Warning: Glossary '(.*)' has no entries`)
)

func glossariesRules() []Rule {
	return []Rule{
		{glossariesBanner, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
		{glossariesNoExec, func(p *Parser, m []string, line string) {
			p.Fatal("unable to execute %s", m[1])
		}},
		{glossariesNoFile, func(p *Parser, m []string, line string) {
			p.Fatal("missing glossary file %q", m[1])
		}},
		{glossariesEmpty, func(p *Parser, m []string, line string) {
			p.Warning("glossary %q has no entries", m[1])
		}},
		{glossariesWarning, func(p *Parser, m []string, line string) {
			p.Warning("%s", m[1])
		}},
		{glossariesError, func(p *Parser, m []string, line string) {
			p.Error("%s", m[1])
		}},
		{glossariesAdded, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
		// The wrapped makeindex diagnostics appear verbatim.
		{makeindexInput, func(p *Parser, m []string, line string) {
			p.Error("input index error in %s line %s", m[1], m[2])
			p.Expect(1, SeverityError)
		}},
	}
}

// NewMakeGlossaries returns the classifier for makeglossaries output, used
// when the document defines glossary entries (.glsdefs present).
func NewMakeGlossaries(sink io.Writer, verbose bool) *Parser {
	return NewParser(glossariesRules(), sink, verbose)
}
