// ABOUTME: Version command printing build information injected at link time
// ABOUTME: Plain lines by default, a JSON object with --format json
package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// VersionInfo is the build metadata set by main via ldflags
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

var versionInfo = VersionInfo{Version: "dev", Commit: "none", Date: "unknown"}

// SetVersion records the build metadata reported by `diary version`
func SetVersion(version, commit, date string) {
	versionInfo = VersionInfo{Version: version, Commit: commit, Date: date}
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Print the diary build version, commit and build date.

Examples:
  diary version
  diary version --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeVersion(cmd.OutOrStdout(), versionInfo, outputFormat)
		},
	}
}

func writeVersion(w io.Writer, info VersionInfo, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if format == "json" {
		data, err := json.Marshal(info)
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	_, err := fmt.Fprintf(w, "Diary %s\nCommit: %s\nBuilt:  %s\n", info.Version, info.Commit, info.Date)
	return err
}
