package commands

// IndexCmd implements the 'index' command: only the index/glossary stage.
type IndexCmd struct {
	Document string `arg:"" help:"Path to the document (any file in the %!TEX root chain)"`
}

func (i *IndexCmd) Run(_ *Global, root *CLI) error {
	prefs, err := loadPrefs(root)
	if err != nil {
		return err
	}
	doc, err := resolveDocument(i.Document)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	rep, err := newCoordinator(root, prefs, doc).Index(ctx)
	if err != nil {
		return err
	}
	return finishReport(rep, prefs)
}
