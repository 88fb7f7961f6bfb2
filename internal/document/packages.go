package document

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Preamble scanning stays deliberately shallow: the root file plus one
// level of \input/\include is enough for preamble material in practice.
var (
	usePackageRe = regexp.MustCompile(`^[^%]*\\usepackage(\[[\w, -]+\])?\{([\w,\-]+)\}`)
	inputRe      = regexp.MustCompile(`^[^%]*\\(?:input|include)\{([\w ./\-]+)\}`)
	beginDocRe   = regexp.MustCompile(`^[^%]*\\begin\{document\}`)
)

// scanPackages collects \usepackage names from the root file and any
// files it inputs before \begin{document}.
func scanPackages(rootPath string) ([]string, error) {
	var packages, includes []string

	// Scanning the root stops at \begin{document}, so the collected
	// includes are preamble material and worth scanning themselves.
	if _, err := scanFileForPackages(rootPath, &packages, &includes); err != nil {
		return nil, err
	}
	dir := filepath.Dir(rootPath)
	for _, inc := range includes {
		if !strings.HasSuffix(inc, ".tex") {
			inc += ".tex"
		}
		incPath := inc
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(dir, incPath)
		}
		// Unreadable includes are skipped; the engine will complain
		// about them with a proper diagnostic of its own.
		_, _ = scanFileForPackages(incPath, &packages, nil)
	}
	return packages, nil
}

func scanFileForPackages(path string, packages *[]string, includes *[]string) (foundBegin bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if beginDocRe.MatchString(line) {
			return true, nil
		}
		if m := usePackageRe.FindStringSubmatch(line); m != nil {
			for _, pkg := range strings.Split(m[2], ",") {
				if pkg = strings.TrimSpace(pkg); pkg != "" {
					*packages = append(*packages, pkg)
				}
			}
			continue
		}
		if includes != nil {
			if m := inputRe.FindStringSubmatch(line); m != nil {
				*includes = append(*includes, strings.TrimSpace(m[1]))
			}
		}
	}
	return false, nil
}

// UsesPackage reports whether any of the given package names is in use.
func (d *Document) UsesPackage(names ...string) bool {
	for _, name := range names {
		for _, pkg := range d.Packages {
			if pkg == name {
				return true
			}
		}
	}
	return false
}
