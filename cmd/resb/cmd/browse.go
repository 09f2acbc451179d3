package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/msto63/resb/internal/tui/browser"
)

var browseCmd = &cobra.Command{
	Use:   "browse BASE [LOCALE]",
	Short: "Explore a bundle interactively",
	Long: `Opens a terminal browser for a bundle. Keys inherited from a less
specific locale are marked with the locale they come from.

Without LOCALE the default locale (general.default_locale) is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	localeID := a.engine.DefaultLocale()
	if len(args) == 2 {
		localeID = args[1]
	}

	model := browser.New(browser.Config{
		Opener:   a.engine,
		BaseName: args[0],
		Locale:   localeID,
	})
	_, err = tea.NewProgram(model).Run()
	return err
}
