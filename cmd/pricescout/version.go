package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags. Builds straight
// from the module proxy fall back to debug.ReadBuildInfo.
var (
	version = ""
	commit  = ""
	date    = ""
)

// versionInfo is the resolved build metadata for the version command.
type versionInfo struct {
	Version string
	Commit  string
	Date    string
	Go      string
}

// resolveVersionInfo fills each field from ldflags first, then from the
// binary's embedded build info, then a placeholder.
func resolveVersionInfo() versionInfo {
	info := versionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		buildInfo = &debug.BuildInfo{}
	}

	if info.Version == "" {
		info.Version = buildInfo.Main.Version
	}
	if info.Version == "" {
		info.Version = "(devel)"
	}

	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = shortCommit(setting.Value)
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = setting.Value
			}
		}
	}

	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}

// shortCommit abbreviates a revision hash to 7 characters.
func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// getVersion returns the version string for the root command.
func getVersion() string {
	return resolveVersionInfo().Version
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, build date, and Go runtime of pricescout.`,
		Run: func(cmd *cobra.Command, _ []string) {
			info := resolveVersionInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "pricescout %s (commit %s, built %s, %s)\n",
				info.Version, info.Commit, info.Date, info.Go)
		},
	}
}
