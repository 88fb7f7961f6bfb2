package config

import (
	"os"
	"strconv"
)

// Environment variables override file values. A .env file is loaded by
// the CLI entrypoint (godotenv) before Load runs, so these also cover
// per-project dotfiles.
const (
	envEngine        = "TEXBUILD_ENGINE"
	envEngineOptions = "TEXBUILD_ENGINE_OPTIONS"
	envUseLatexmk    = "TEXBUILD_USE_LATEXMK"
	envAutoView      = "TEXBUILD_AUTO_VIEW"
	envKeepLogWindow = "TEXBUILD_KEEP_LOG_WINDOW"
	envVerbose       = "TEXBUILD_VERBOSE"
	envDebug         = "TEXBUILD_DEBUG"
	envViewer        = "TEXBUILD_VIEWER"
	envReportPath    = "TEXBUILD_REPORT_PATH"
)

func (p *Preferences) applyEnv() {
	setString(&p.Engine, envEngine)
	setString(&p.EngineOptions, envEngineOptions)
	setString(&p.Viewer, envViewer)
	setString(&p.ReportPath, envReportPath)
	setBool(&p.UseLatexmk, envUseLatexmk)
	setBool(&p.AutoView, envAutoView)
	setBool(&p.KeepLogWindow, envKeepLogWindow)
	setBool(&p.Verbose, envVerbose)
	setBool(&p.Debug, envDebug)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
