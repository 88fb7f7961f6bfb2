package commands

// LintCmd implements the 'lint' command: chktex over the document.
type LintCmd struct {
	Document string `arg:"" help:"Path to the document (any file in the %!TEX root chain)"`
}

func (l *LintCmd) Run(_ *Global, root *CLI) error {
	prefs, err := loadPrefs(root)
	if err != nil {
		return err
	}
	doc, err := resolveDocument(l.Document)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	rep, err := newCoordinator(root, prefs, doc).Lint(ctx)
	if err != nil {
		return err
	}
	return finishReport(rep, prefs)
}
