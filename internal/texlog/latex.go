package texlog

import (
	"io"
	"regexp"
)

// The typesetting engine has the richest output grammar. Patterns are
// ordered most-specific first: file:line locators and hard "!" errors
// before the generic warning catch-alls.
var (
	latexBanner      = regexp.MustCompile(`^This is (pdfTeX|XeTeX|LuaTeX|LuaHBTeX|TeX),? `)
	latexFileLineErr = regexp.MustCompile(`^(\.?/?[^:]+\.\w{2,4}):(\d+): (.*)`)
	latexMissingFile = regexp.MustCompile(`^! LaTeX Error: File ` + "`" + `([^']+)' not found`)
	latexCantFind    = regexp.MustCompile(`^! I can't find file ` + "`" + `([^']+)'`)
	latexEmergency   = regexp.MustCompile(`^! Emergency stop`)
	latexFatalOccur  = regexp.MustCompile(`^Fatal error occurred, no output PDF file produced!`)
	latexTexError    = regexp.MustCompile(`^! (.*)`)
	latexUndefCite   = regexp.MustCompile(`^LaTeX Warning: Citation ` + "`" + `([^']+)' on page (\d+) undefined`)
	latexUndefRef    = regexp.MustCompile(`^LaTeX Warning: Reference ` + "`" + `([^']+)' on page (\d+) undefined`)
	latexRerun       = regexp.MustCompile(`^LaTeX Warning: Label\(s\) may have changed`)
	latexWarning     = regexp.MustCompile(`^LaTeX Warning: (.*)`)
	latexPkgWarning  = regexp.MustCompile(`^(Package|Class) (\S+) Warning: (.*)`)
	latexBoxWarning  = regexp.MustCompile(`^(Overfull|Underfull) \\([hv])box (.*)`)
	latexPdfWarning  = regexp.MustCompile(`^pdfTeX warning`)
	latexOutput      = regexp.MustCompile(`^Output written on (.*) \((\d+) pages?`)
	latexNoPages     = regexp.MustCompile(`^No pages of output\.`)
)

// latexRules is the rule table for direct engine runs (pdflatex, latex,
// xelatex, lualatex). Shared verbatim by the latexmk variant for the
// engine's interleaved sub-pass output.
func latexRules() []Rule {
	return []Rule{
		{latexBanner, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
		{latexFileLineErr, func(p *Parser, m []string, line string) {
			// -file-line-error locator. The explanatory context arrives on
			// the following line and must not be counted again.
			p.Error("%s:%s: %s", m[1], m[2], m[3])
			p.Expect(1, SeverityError)
		}},
		{latexMissingFile, func(p *Parser, m []string, line string) {
			p.Fatal("file %q not found", m[1])
		}},
		{latexCantFind, func(p *Parser, m []string, line string) {
			p.Fatal("input file %q not found", m[1])
		}},
		{latexEmergency, func(p *Parser, m []string, line string) {
			p.Fatal("emergency stop")
		}},
		{latexFatalOccur, func(p *Parser, m []string, line string) {
			p.Fatal("no output produced")
		}},
		{latexTexError, func(p *Parser, m []string, line string) {
			p.Error("%s", m[1])
			p.Expect(1, SeverityError)
		}},
		{latexUndefCite, func(p *Parser, m []string, line string) {
			p.Warning("citation %q on page %s undefined", m[1], m[2])
		}},
		{latexUndefRef, func(p *Parser, m []string, line string) {
			p.Warning("reference %q on page %s undefined", m[1], m[2])
		}},
		{latexRerun, func(p *Parser, m []string, line string) {
			p.Warning("labels may have changed, rerun to get cross-references right")
		}},
		{latexWarning, func(p *Parser, m []string, line string) {
			p.Warning("%s", m[1])
		}},
		{latexPkgWarning, func(p *Parser, m []string, line string) {
			p.Warning("%s %s: %s", m[1], m[2], m[3])
		}},
		{latexBoxWarning, func(p *Parser, m []string, line string) {
			p.Warning("%s \\%sbox %s", m[1], m[2], m[3])
		}},
		{latexPdfWarning, func(p *Parser, m []string, line string) {
			p.Warning("%s", line)
		}},
		{latexOutput, func(p *Parser, m []string, line string) {
			p.Info("%s", line)
		}},
		{latexNoPages, func(p *Parser, m []string, line string) {
			p.Warning("no pages of output")
		}},
	}
}

// NewLaTeX returns the classifier for typesetting engine output.
func NewLaTeX(sink io.Writer, verbose bool) *Parser {
	return NewParser(latexRules(), sink, verbose)
}
