package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gravitrone/sidechat/cli/internal/api"
	"github.com/gravitrone/sidechat/cli/internal/cmd"
	"github.com/gravitrone/sidechat/cli/internal/config"
	"github.com/gravitrone/sidechat/cli/internal/drafts"
	"github.com/gravitrone/sidechat/cli/internal/i18n"
	"github.com/gravitrone/sidechat/cli/internal/logging"
	"github.com/gravitrone/sidechat/cli/internal/ui"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sidechat",
		Short: "sidechat - terminal chat client",
		Long:  "sidechat: browse conversations, keep drafts per conversation, and manage workspace settings.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(cmd.LoginCmd())
	root.AddCommand(cmd.ReportsCmd())
	root.AddCommand(cmd.DraftsCmd())
	root.AddCommand(cmd.WorkspaceCmd())
	root.AddCommand(cmd.StatusCmd())
	return root
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("not logged in. run 'sidechat login' first.")
		}
		return err
	}
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		return errors.New("sidechat needs an interactive terminal; try 'sidechat reports'")
	}

	log, closer, err := logging.OpenFile(config.LogPath(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	tr, err := i18n.New(cfg.Locale)
	if err != nil {
		return err
	}

	deps := ui.Deps{Logger: log, Translator: tr}
	store, err := drafts.OpenStore(drafts.DefaultDir())
	if err != nil {
		log.Error(err, "drafts disabled")
	} else {
		deps.Store = store
	}

	client := api.NewClientFor(cfg.BaseURL, cfg.APIKey)
	app := ui.NewApp(client, cfg, deps)

	log.With("base_url", client.BaseURL()).Info("starting tui")
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
