package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/tmscope/internal/playground"
)

var playgroundCmd = &cobra.Command{
	Use:   "playground <grammar>",
	Short: "Interactive single-line tokenization playground",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayground,
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}

func runPlayground(cmd *cobra.Command, args []string) error {
	grammar, compiler, err := loadGrammar(args[0])
	if err != nil {
		return fmt.Errorf("loading grammar: %w", err)
	}

	model := playground.New(grammar, compiler)
	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err = p.Run()
	if err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}
