// Package texlog turns the console output of the TeX toolchain into
// structured results. Each external tool (latex engines, bibtex, biber,
// makeindex, makeglossaries, chktex, latexmk) gets its own ordered rule
// table; the Parser applies the table line by line and accumulates error
// and warning counts plus a fatal flag.
package texlog

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
)

// Severity classifies a single diagnostic event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal"
)

// HandlerFunc is invoked when a rule's pattern matches a line. match holds
// the submatches from the pattern (index 0 is the whole match).
type HandlerFunc func(p *Parser, match []string, line string)

// Rule pairs a line pattern with its handler. Rules are tried in table
// order and only the first match on a line fires, so tables must list the
// more specific pattern before the more general one.
type Rule struct {
	Pattern *regexp.Regexp
	Handle  HandlerFunc
}

// ParseResult is the structured outcome of classifying one tool run.
// Fatal means the tool could not produce usable output and dependent
// stages must not run; it is strictly stronger than a nonzero error count.
type ParseResult struct {
	Fatal    bool
	Errors   int
	Warnings int
	// Passes is only populated by the latexmk variant: the number of
	// typesetting sub-passes the meta tool reported.
	Passes int
}

// continuation carries multi-line diagnostic state between successive
// lines. The stream is consumed strictly once, forward-only, so handlers
// that need the line(s) following a match register a continuation instead
// of re-reading.
type continuation struct {
	remaining int
	severity  Severity
}

// Parser classifies one tool's output stream against its rule table.
// A Parser instance serves exactly one run; it is not reentrant and must
// not be shared across concurrent invocations.
type Parser struct {
	rules   []Rule
	sink    io.Writer
	verbose bool

	errors   int
	warnings int
	fatal    bool
	passes   int

	pending *continuation
}

// NewParser builds a Parser over the given rule table. Unmatched lines and
// info events are forwarded to sink only when verbose is set; warnings and
// errors are always forwarded. Counting is independent of verbosity.
func NewParser(rules []Rule, sink io.Writer, verbose bool) *Parser {
	return &Parser{rules: rules, sink: sink, verbose: verbose}
}

// maxLineLen caps how much of a single line is kept for classification.
// No diagnostic any tool emits comes anywhere near this.
const maxLineLen = 1 << 20

// Parse reads the stream to exhaustion and returns the accumulated result.
// An over-long line is dropped, unclassified, and parsing continues with
// the next line; malformed input never fails the parse or hides later
// diagnostics.
func (p *Parser) Parse(r io.Reader) ParseResult {
	br := bufio.NewReaderSize(r, 64*1024)
	var line []byte
	discard := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			// End of stream; a final unterminated line was already returned
			// with a nil error by ReadLine.
			break
		}
		if !discard {
			line = append(line, chunk...)
			if len(line) > maxLineLen {
				discard = true
			}
		}
		if isPrefix {
			continue
		}
		if !discard {
			p.Line(string(line))
		}
		line = line[:0]
		discard = false
	}
	return p.Result()
}

// Line classifies a single line. Exposed so composite parsers (latexmk)
// and tests can drive the classifier without a full stream.
func (p *Parser) Line(line string) {
	if c := p.pending; c != nil && c.remaining > 0 {
		c.remaining--
		if c.remaining == 0 {
			p.pending = nil
		}
		// Context lines belong to an already-counted diagnostic.
		p.forward(line, c.severity != SeverityInfo)
		return
	}
	for _, r := range p.rules {
		if m := r.Pattern.FindStringSubmatch(line); m != nil {
			r.Handle(p, m, line)
			return
		}
	}
	p.forward(line, false)
}

// Result snapshots the counters accumulated so far.
func (p *Parser) Result() ParseResult {
	return ParseResult{Fatal: p.fatal, Errors: p.errors, Warnings: p.warnings, Passes: p.passes}
}

// Expect arranges for the next n lines to be forwarded as context of the
// current diagnostic instead of being matched against the rule table.
func (p *Parser) Expect(n int, sev Severity) {
	if n > 0 {
		p.pending = &continuation{remaining: n, severity: sev}
	}
}

// Info emits an informational line. Visible only in verbose mode.
func (p *Parser) Info(format string, args ...any) {
	p.forward(fmt.Sprintf(format, args...), false)
}

// Warning records a warning and emits it.
func (p *Parser) Warning(format string, args ...any) {
	p.warnings++
	p.forward("Warning: "+fmt.Sprintf(format, args...), true)
}

// Error records an error and emits it.
func (p *Parser) Error(format string, args ...any) {
	p.errors++
	p.forward("Error: "+fmt.Sprintf(format, args...), true)
}

// Fatal records an unrecoverable condition. It counts as an error and
// latches the fatal flag.
func (p *Parser) Fatal(format string, args ...any) {
	p.errors++
	p.fatal = true
	p.forward("Fatal: "+fmt.Sprintf(format, args...), true)
}

// addPass bumps the typesetting sub-pass counter (latexmk variant only).
func (p *Parser) addPass() { p.passes++ }

func (p *Parser) forward(line string, always bool) {
	if p.sink == nil {
		return
	}
	if !always && !p.verbose {
		return
	}
	fmt.Fprintln(p.sink, line)
}
