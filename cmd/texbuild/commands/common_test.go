package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/texbuild/internal/config"
	"git.home.luguber.info/inful/texbuild/internal/pipeline"
)

func TestFinishReportMapsDismissCode(t *testing.T) {
	prefs := config.Default()
	prefs.Viewer = "Skim"

	err := finishReport(&pipeline.Report{}, prefs)
	require.Error(t, err)
	var ec *ExitCodeError
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, pipeline.ExitDismissLog, ec.Code)
}

func TestFinishReportEditorViewerKeepsLog(t *testing.T) {
	prefs := config.Default() // viewer defaults to the host editor
	assert.NoError(t, finishReport(&pipeline.Report{}, prefs))
}

func TestFinishReportErrorsKeepLog(t *testing.T) {
	prefs := config.Default()
	prefs.Viewer = "Skim"
	assert.NoError(t, finishReport(&pipeline.Report{Errors: 2}, prefs))
}

func TestExitCodeErrorMessage(t *testing.T) {
	assert.Equal(t, "exit code 200", (&ExitCodeError{Code: 200}).Error())
}
