package texlog

import (
	"io"
	"regexp"
)

// biber prefixes every line with a log level, which makes its grammar the
// simplest of the bibliography processors.
var (
	biberInfo  = regexp.MustCompile(`^INFO - (.*)`)
	biberWarn  = regexp.MustCompile(`^WARN - (.*)`)
	biberError = regexp.MustCompile(`^ERROR - (.*)`)
	biberFatal = regexp.MustCompile(`^FATAL - (.*)`)
)

func biberRules() []Rule {
	return []Rule{
		{biberFatal, func(p *Parser, m []string, line string) {
			p.Fatal("%s", m[1])
		}},
		{biberError, func(p *Parser, m []string, line string) {
			p.Error("%s", m[1])
		}},
		{biberWarn, func(p *Parser, m []string, line string) {
			p.Warning("%s", m[1])
		}},
		{biberInfo, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
	}
}

// NewBiber returns the classifier for biber output, used when the document
// was typeset with a biblatex backend control file (.bcf).
func NewBiber(sink io.Writer, verbose bool) *Parser {
	return NewParser(biberRules(), sink, verbose)
}
