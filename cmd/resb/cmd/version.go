package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/resb/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Printf("%s v%s\n", titleStyle.Render("resb"), info.Version)
		fmt.Printf("  Git Commit:     %s\n", info.Commit)
		fmt.Printf("  Build Date:     %s\n", info.BuildDate)
		fmt.Printf("  Go Version:     %s\n", info.GoVersion)
		fmt.Printf("  OS/Arch:        %s\n", info.Platform)
		fmt.Printf("  Bundle Format:  v%d\n", info.FormatVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
