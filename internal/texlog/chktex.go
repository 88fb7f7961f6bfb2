package texlog

import (
	"io"
	"regexp"
)

var (
	chktexBanner  = regexp.MustCompile(`^ChkTeX v[\d.]+ -`)
	chktexWarning = regexp.MustCompile(`^Warning (\d+) in (.+) line (\d+): (.*)`)
	chktexError   = regexp.MustCompile(`^Error (\d+) in (.+) line (\d+): (.*)`)
	chktexNoFile  = regexp.MustCompile(`^chktex: (.+): No such file or directory`)
	chktexSummary = regexp.MustCompile(`^(\d+) errors? printed; (\d+) warnings? printed;`)
)

// chktexRules covers the lint checker. Each diagnostic is followed by the
// offending source line and a caret marker, neither of which may be
// counted on their own.
func chktexRules() []Rule {
	return []Rule{
		{chktexBanner, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
		{chktexWarning, func(p *Parser, m []string, line string) {
			p.Warning("%s:%s: %s (chktex %s)", m[2], m[3], m[4], m[1])
			p.Expect(2, SeverityWarning)
		}},
		{chktexError, func(p *Parser, m []string, line string) {
			p.Error("%s:%s: %s (chktex %s)", m[2], m[3], m[4], m[1])
			p.Expect(2, SeverityError)
		}},
		{chktexNoFile, func(p *Parser, m []string, line string) {
			p.Fatal("no such file %s", m[1])
		}},
		{chktexSummary, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
	}
}

// NewChkTeX returns the classifier for chktex output.
func NewChkTeX(sink io.Writer, verbose bool) *Parser {
	return NewParser(chktexRules(), sink, verbose)
}
