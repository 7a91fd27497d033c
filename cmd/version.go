package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the configured quiz server",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "quizpath", buildVersion())
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintln(out, "config:", err)
			return
		}
		fmt.Fprintln(out, "server:", cfg.Server.BaseURL)
		fmt.Fprintln(out, "user:  ", cfg.UserID)
	},
}

// buildVersion falls back to the module version and appends the VCS
// revision when the binary carries build info.
func buildVersion() string {
	v := version
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	if v == "(devel)" && info.Main.Version != "" {
		v = info.Main.Version
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			v += " (" + s.Value[:7] + ")"
		}
	}
	return v
}
