// Package tui is the interactive terminal client: an Elm-style model whose
// update loop is the single writer of all UI state, fed by watch
// subscriptions, background tasks, and key input.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/crn4/kr/internal/kube"
	"github.com/crn4/kr/internal/state"
	"github.com/crn4/kr/pkg/logging"
)

// Run starts the full-screen UI and blocks until the user quits.
func Run() error {
	closeLogs := logging.InitForTUI(logging.LevelFromEnv())
	defer closeLogs()

	st, err := state.Load()
	if err != nil {
		return err
	}
	contexts, current, err := kube.ListContexts()
	if err != nil {
		return err
	}
	if len(contexts) == 0 {
		return fmt.Errorf("no contexts in kubeconfig")
	}
	client, err := kube.ClientForContext("")
	if err != nil {
		return err
	}

	model := NewModel(client, current, kube.ContextNamespace(current), contexts, st)
	logging.Info("tui", "starting with context %q", current)

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
