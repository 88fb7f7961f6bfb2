package commands

// BibCmd implements the 'bib' command: only the bibliography stage.
type BibCmd struct {
	Document string `arg:"" help:"Path to the document (any file in the %!TEX root chain)"`
}

func (b *BibCmd) Run(_ *Global, root *CLI) error {
	prefs, err := loadPrefs(root)
	if err != nil {
		return err
	}
	doc, err := resolveDocument(b.Document)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	rep, err := newCoordinator(root, prefs, doc).Bibliography(ctx)
	if err != nil {
		return err
	}
	return finishReport(rep, prefs)
}
