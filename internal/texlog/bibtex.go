package texlog

import (
	"io"
	"regexp"
)

var (
	bibtexBanner    = regexp.MustCompile(`^This is BibTeX,`)
	bibtexWarning   = regexp.MustCompile(`^Warning--(.*)`)
	bibtexLocator   = regexp.MustCompile(`^-+line (\d+) of file (.*)`)
	bibtexCantOpen  = regexp.MustCompile(`^I couldn't open (style file|database file|file) (.*)`)
	bibtexFoundNo   = regexp.MustCompile(`^I found no (\\citation commands|\\bibdata command|\\bibstyle command|database files|style file)`)
	bibtexCapacity  = regexp.MustCompile(`^Sorry---you've exceeded BibTeX's (.*)`)
	bibtexCrossref  = regexp.MustCompile(`^A bad cross reference---(.*)`)
	bibtexDatabase  = regexp.MustCompile(`^Database file #\d+: (.*)`)
	bibtexEmptyBib  = regexp.MustCompile(`^Warning: empty bibliography`)
	bibtexErrorTail = regexp.MustCompile(`\(There (was|were) (\d+) error messages?\)`)
)

// bibtexRules covers the standard bibliography processor. bibtex prints a
// free-text description first and the "---line N of file" locator after
// it, so the locator line is where the error is counted.
func bibtexRules() []Rule {
	return []Rule{
		{bibtexBanner, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
		{bibtexEmptyBib, func(p *Parser, m []string, line string) {
			p.Warning("empty bibliography")
		}},
		{bibtexWarning, func(p *Parser, m []string, line string) {
			p.Warning("%s", m[1])
		}},
		{bibtexLocator, func(p *Parser, m []string, line string) {
			p.Error("line %s of %s", m[1], m[2])
		}},
		{bibtexCantOpen, func(p *Parser, m []string, line string) {
			p.Fatal("couldn't open %s %s", m[1], m[2])
		}},
		{bibtexFoundNo, func(p *Parser, m []string, line string) {
			p.Fatal("found no %s", m[1])
		}},
		{bibtexCapacity, func(p *Parser, m []string, line string) {
			p.Fatal("capacity exceeded: %s", m[1])
		}},
		{bibtexCrossref, func(p *Parser, m []string, line string) {
			p.Error("bad cross reference %s", m[1])
		}},
		{bibtexDatabase, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
		{bibtexErrorTail, func(p *Parser, m []string, line string) {
			// Summary line; individual errors were already counted.
			p.Info("%s", line)
		}},
	}
}

// NewBibTeX returns the classifier for bibtex output.
func NewBibTeX(sink io.Writer, verbose bool) *Parser {
	return NewParser(bibtexRules(), sink, verbose)
}
