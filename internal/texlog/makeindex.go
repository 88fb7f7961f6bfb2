package texlog

import (
	"io"
	"regexp"
)

var (
	makeindexBanner  = regexp.MustCompile(`^This is makeindex,`)
	makeindexInput   = regexp.MustCompile(`^!! Input index error \(file = (.*), line = (\d+)\):`)
	makeindexCantOpn = regexp.MustCompile(`^Can't (locate|open) (input|index|style) file (.*)`)
	makeindexDone    = regexp.MustCompile(`done \((\d+) entries accepted, (\d+) rejected\)`)
	makeindexWarn    = regexp.MustCompile(`^## Warning \(input = (.*), line = (\d+)\):`)
	makeindexNothing = regexp.MustCompile(`^Nothing written in`)
)

func makeindexRules() []Rule {
	return []Rule{
		{makeindexBanner, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
		{makeindexInput, func(p *Parser, m []string, line string) {
			// The offending entry follows on the next line.
			p.Error("input index error in %s line %s", m[1], m[2])
			p.Expect(1, SeverityError)
		}},
		{makeindexCantOpn, func(p *Parser, m []string, line string) {
			p.Fatal("can't %s %s file %s", m[1], m[2], m[3])
		}},
		{makeindexWarn, func(p *Parser, m []string, line string) {
			p.Warning("input %s line %s", m[1], m[2])
			p.Expect(1, SeverityWarning)
		}},
		{makeindexDone, func(p *Parser, m []string, line string) {
			if m[2] != "0" {
				p.Warning("%s index entries rejected", m[2])
				return
			}
			p.Info("%s", line)
		}},
		{makeindexNothing, func(p *Parser, m []string, line string) {
			p.Warning("%s", line)
		}},
	}
}

// NewMakeIndex returns the classifier for makeindex output.
func NewMakeIndex(sink io.Writer, verbose bool) *Parser {
	return NewParser(makeindexRules(), sink, verbose)
}
