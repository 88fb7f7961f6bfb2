package runner

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/texbuild/internal/texlog"
)

func TestRunMissingToolIsCollaboratorFailure(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(),
		Invocation{Name: "definitely-not-a-real-tex-binary"},
		texlog.NewLaTeX(nil, false))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestLookTool(t *testing.T) {
	assert.NoError(t, LookTool("sh"))
	assert.ErrorIs(t, LookTool("definitely-not-a-real-tex-binary"), ErrToolNotFound)
}

func TestRunClassifiesMergedOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	// stderr is merged into stdout, so the warning printed to stderr must
	// be observed by the classifier.
	inv := Invocation{
		Name: "sh",
		Args: []string{"-c",
			`echo 'LaTeX Warning: There were undefined references.'; ` +
				`echo '! Emergency stop.' 1>&2`},
	}
	res, err := ExecRunner{}.Run(context.Background(), inv, texlog.NewLaTeX(nil, false))
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitStatus)
	assert.Equal(t, 1, res.Parse.Warnings)
	assert.True(t, res.Parse.Fatal)
}

func TestRunNonZeroExitIsAdvisory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	res, err := ExecRunner{}.Run(context.Background(),
		Invocation{Name: "sh", Args: []string{"-c", "exit 3"}},
		texlog.NewLaTeX(nil, false))
	require.NoError(t, err, "nonzero exit is not a runner error")
	assert.Equal(t, 3, res.ExitStatus)
	assert.Equal(t, texlog.ParseResult{}, res.Parse)
}

func TestInvocationString(t *testing.T) {
	inv := Invocation{Name: "pdflatex", Args: []string{"-interaction=nonstopmode", "thesis.tex"}}
	assert.Equal(t, "pdflatex -interaction=nonstopmode thesis.tex", inv.String())
}
