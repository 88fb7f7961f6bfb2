package pipeline

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Artifacts records which conventionally-named sibling files of the
// document existed when the pipeline started. Their internal formats are
// opaque here; only presence matters for stage selection.
type Artifacts struct {
	BiberControl bool // <base>.bcf: biblatex backend control file -> biber
	Citations    bool // citations in <base>.aux -> bibtex
	Index        bool // <base>.idx -> makeindex
	Glossary     bool // <base>.glsdefs -> makeglossaries
}

// NeedsBibliography reports whether any bibliography stage should run.
func (a Artifacts) NeedsBibliography() bool { return a.BiberControl || a.Citations }

// NeedsIndex reports whether an index or glossary stage should run.
func (a Artifacts) NeedsIndex() bool { return a.Index || a.Glossary }

var auxCitationRe = regexp.MustCompile(`^\\(citation|bibdata|bibstyle)\{`)

// ProbeArtifacts inspects the typeset directory for stage-selecting
// artifacts left by previous runs.
func ProbeArtifacts(dir, base string) Artifacts {
	exists := func(ext string) bool {
		_, err := os.Stat(filepath.Join(dir, base+ext))
		return err == nil
	}
	return Artifacts{
		BiberControl: exists(".bcf"),
		Citations:    auxHasCitations(filepath.Join(dir, base+".aux")),
		Index:        exists(".idx"),
		Glossary:     exists(".glsdefs"),
	}
}

// auxHasCitations reports whether the aux file requests bibliography
// processing. A missing or unreadable aux file means no.
func auxHasCitations(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if auxCitationRe.MatchString(strings.TrimSpace(sc.Text())) {
			return true
		}
	}
	return false
}

// bibliographyAuxFiles lists the aux files the standard bibliography
// processor should run on: the document's own plus bu<N>.aux companions
// produced by multibib-style setups.
var multibibAuxRe = regexp.MustCompile(`^bu\d+\.aux$`)

func bibliographyAuxFiles(dir, base string) []string {
	var out []string
	if _, err := os.Stat(filepath.Join(dir, base+".aux")); err == nil {
		out = append(out, base+".aux")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return out
	}
	for _, e := range entries {
		if !e.IsDir() && multibibAuxRe.MatchString(e.Name()) {
			out = append(out, e.Name())
		}
	}
	return out
}
