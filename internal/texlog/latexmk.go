package texlog

import (
	"io"
	"regexp"
	"strings"
)

// latexmk drives the engine and the bibliography tools itself, so its
// stream interleaves its own status lines with full engine and bibtex
// output. The variant therefore prepends latexmk-specific rules to the
// engine and bibtex tables, and additionally counts how many typesetting
// sub-passes the meta tool performed.
var (
	latexmkBanner   = regexp.MustCompile(`^Latexmk: This is Latexmk`)
	latexmkRunRule  = regexp.MustCompile(`^Run number (\d+) of rule '([^']+)'`)
	latexmkApplying = regexp.MustCompile(`^Latexmk: applying rule '([^']+)'`)
	latexmkErrors   = regexp.MustCompile(`^Latexmk: Errors, so I did not complete making targets`)
	latexmkUpToDate = regexp.MustCompile(`^Latexmk: All targets \(.*\) are up-to-date`)
	latexmkNothing  = regexp.MustCompile(`^Latexmk: Nothing to do for '(.*)'`)
	latexmkSummary  = regexp.MustCompile(`^Collected error summary`)
)

func latexmkRulesOnly() []Rule {
	return []Rule{
		{latexmkBanner, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
		{latexmkRunRule, func(p *Parser, m []string, line string) {
			if isTypesetRule(m[2]) {
				p.addPass()
			}
			p.Info("%s", line)
		}},
		{latexmkApplying, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
		{latexmkErrors, func(p *Parser, m []string, line string) {
			// The underlying engine errors were already counted from the
			// interleaved output; this is latexmk's own summary.
			p.Info("%s", line)
		}},
		{latexmkUpToDate, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
		{latexmkNothing, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
		{latexmkSummary, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
	}
}

// isTypesetRule reports whether a latexmk rule name denotes an engine run
// rather than a bibliography or index step.
func isTypesetRule(rule string) bool {
	for _, name := range []string{"latex", "pdflatex", "xelatex", "lualatex"} {
		if rule == name || strings.HasPrefix(rule, name+" ") {
			return true
		}
	}
	return false
}

// NewLatexmk returns the classifier for latexmk output. Its ParseResult
// carries the typesetting pass count in Passes.
func NewLatexmk(sink io.Writer, verbose bool) *Parser {
	rules := latexmkRulesOnly()
	rules = append(rules, latexRules()...)
	rules = append(rules, bibtexRules()...)
	return NewParser(rules, sink, verbose)
}
