package commands

// TypesetCmd implements the 'typeset' command: exactly one engine pass,
// plus DVI post-processing when the DVI engine is selected.
type TypesetCmd struct {
	Document string `arg:"" help:"Path to the document (any file in the %!TEX root chain)"`
	View     bool   `help:"Open the viewer after a pass without errors"`
}

func (t *TypesetCmd) Run(_ *Global, root *CLI) error {
	prefs, err := loadPrefs(root)
	if err != nil {
		return err
	}
	if t.View {
		prefs.AutoView = true
	}

	doc, err := resolveDocument(t.Document)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	rep, err := newCoordinator(root, prefs, doc).Typeset(ctx)
	if err != nil {
		return err
	}
	return finishReport(rep, prefs)
}
