package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// cleanExtensions lists the generated artifacts removed by Clean. The
// list is fixed: cleaning is driven by convention, never by parsing.
var cleanExtensions = []string{
	"aux", "bbl", "bcf", "blg", "fdb_latexmk", "fls", "fmt", "glg", "glo",
	"gls", "glsdefs", "idx", "ilg", "ind", "ini", "log", "maf", "mtc",
	"mtc1", "out", "pdfsync", "run.xml", "synctex.gz", "toc",
}

// Clean removes the document's generated build artifacts. It is not a
// parsed stage: it reports the removed files and no diagnostics, and a
// directory with nothing to remove is a successful no-op.
func (c *Coordinator) Clean() ([]string, error) {
	base := c.doc.BaseName()
	var removed []string
	for _, ext := range cleanExtensions {
		path := filepath.Join(c.doc.Dir, base+"."+ext)
		err := os.Remove(path)
		switch {
		case err == nil:
			removed = append(removed, filepath.Base(path))
		case os.IsNotExist(err):
			// Nothing to do.
		default:
			return removed, fmt.Errorf("remove %s: %w", path, err)
		}
	}
	slog.Info("Cleaned generated artifacts", "document", c.doc.Name, "removed", len(removed))
	return removed, nil
}
