package main

import (
	"errors"

	"checklist/internal/chat"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// chatCmd runs the interactive checklist
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Walk through a checklist interactively",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

var errSubmissionFailed = errors.New("responses were not saved")

func runChat(cmd *cobra.Command, args []string) error {
	p := tea.NewProgram(
		chat.New(newClient()),
		tea.WithContext(cmd.Context()),
	)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(chat.Model); ok && m.Failed() {
		return errSubmissionFailed
	}
	return nil
}
