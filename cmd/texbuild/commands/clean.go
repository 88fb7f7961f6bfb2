package commands

import "fmt"

// CleanCmd implements the 'clean' command: remove generated artifacts for
// the resolved document. Not a parsed stage; nothing runs, nothing is
// classified.
type CleanCmd struct {
	Document string `arg:"" help:"Path to the document (any file in the %!TEX root chain)"`
}

func (c *CleanCmd) Run(_ *Global, root *CLI) error {
	prefs, err := loadPrefs(root)
	if err != nil {
		return err
	}
	doc, err := resolveDocument(c.Document)
	if err != nil {
		return err
	}

	removed, err := newCoordinator(root, prefs, doc).Clean()
	if err != nil {
		return err
	}
	for _, name := range removed {
		fmt.Println("removed", name)
	}
	fmt.Printf("Removed %d files\n", len(removed))
	return nil
}
