// Package document resolves which file to typeset and how: the %!TEX
// directive chain, the packages the document pulls in, the engine to use
// and its options. All preference input arrives as an explicit parameter;
// nothing here reads ambient environment state.
package document

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// ErrRootLoop indicates a cycle in the %!TEX root directive chain.
var ErrRootLoop = errors.New("texbuild: loop in %!TEX root directives")

// directiveRe matches "%!TEX key = value" lines. Only the first
// directiveScanLines lines of each file are scanned, per convention.
var directiveRe = regexp.MustCompile(`^%!TEX\s+([\w-]+)\s*=\s*(.*)`)

const directiveScanLines = 20

// Recognized directive keys. Arbitrary other keys are kept as passthrough.
const (
	DirectiveRoot     = "root"
	DirectiveProgram  = "TS-program"
	DirectiveOptions  = "TS-options"
	DirectiveEncoding = "encoding"
)

// Document is the resolved identity of one typesetting target.
type Document struct {
	Name       string            // root file name, e.g. "thesis.tex"
	Dir        string            // absolute typeset directory
	Directives map[string]string // merged %!TEX directives along the root chain
	Packages   []string          // \usepackage names from the preamble
}

// Path returns the absolute path of the root file.
func (d *Document) Path() string { return filepath.Join(d.Dir, d.Name) }

// BaseName returns the root file name without its extension.
func (d *Document) BaseName() string { return StripExtension(d.Name) }

// StripExtension drops the suffix after the last dot, if any.
func StripExtension(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

// Resolve walks the %!TEX root chain starting from path and returns the
// resolved document. Directives found closer to the start of the chain
// win over those in files further along it.
func Resolve(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve document path: %w", err)
	}

	directives := map[string]string{}
	chain := []string{abs}
	current := abs
	for {
		fileDirectives, err := scanDirectives(current)
		if err != nil {
			return nil, err
		}
		for k, v := range fileDirectives {
			if _, seen := directives[k]; !seen || k == DirectiveRoot {
				directives[k] = v
			}
		}
		root, ok := fileDirectives[DirectiveRoot]
		if !ok {
			break
		}
		next := root
		if !filepath.IsAbs(next) {
			next = filepath.Join(filepath.Dir(current), next)
		}
		next = filepath.Clean(next)
		for _, seen := range chain {
			if seen == next {
				return nil, fmt.Errorf("%w: chain %v", ErrRootLoop, append(chain, next))
			}
		}
		chain = append(chain, next)
		current = next
		directives[DirectiveRoot] = next
	}

	doc := &Document{
		Name:       filepath.Base(current),
		Dir:        filepath.Dir(current),
		Directives: directives,
	}
	if pkgs, err := scanPackages(current); err == nil {
		doc.Packages = pkgs
	}
	return doc, nil
}

// scanDirectives reads the %!TEX directives from the head of one file.
func scanDirectives(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	out := map[string]string{}
	sc := bufio.NewScanner(f)
	for i := 0; i < directiveScanLines && sc.Scan(); i++ {
		if m := directiveRe.FindStringSubmatch(sc.Text()); m != nil {
			out[m[1]] = strings.TrimSpace(m[2])
		}
	}
	return out, nil
}

// Encoding resolves the encoding directive to a decoder for tool output
// and source files. A missing directive or any UTF-8 spelling yields nil,
// meaning the stream is consumed as-is.
func (d *Document) Encoding() (encoding.Encoding, error) {
	name, ok := d.Directives[DirectiveEncoding]
	if !ok {
		return nil, nil
	}
	switch strings.ToLower(name) {
	case "utf-8", "utf8", "utf-8 unix", "ascii":
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown encoding %q in %%!TEX directive", name)
	}
	return enc, nil
}
