package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/texbuild/cmd/texbuild/commands"
	"git.home.luguber.info/inful/texbuild/internal/pipeline"
	"git.home.luguber.info/inful/texbuild/internal/runner"
	"git.home.luguber.info/inful/texbuild/internal/version"
)

func main() {
	// Optional .env for TEXBUILD_* overrides and toolchain PATH tweaks.
	_ = godotenv.Load()

	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("texbuild"),
		kong.Description("LaTeX toolchain driver: runs the build sequence, classifies tool output and reports results"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default()}, cli)

	var ec *commands.ExitCodeError
	switch {
	case err == nil:
	case errors.As(err, &ec):
		os.Exit(ec.Code)
	case errors.Is(err, runner.ErrToolNotFound):
		slog.Error("Required tool is not installed or not on PATH", "error", err)
		os.Exit(1)
	case errors.Is(err, pipeline.ErrAborted):
		// The summary already went to stdout; the abort itself is the signal.
		os.Exit(1)
	default:
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
