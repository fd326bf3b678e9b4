package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/sidechat/cli/internal/api"
	"github.com/gravitrone/sidechat/cli/internal/config"
)

// RunInteractiveLogin prompts for username, calls login API, and persists config.
func RunInteractiveLogin(in io.Reader, out io.Writer, baseURL string) error {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	if username == "" {
		return fmt.Errorf("username is required")
	}

	client := api.NewClientFor(baseURL, "")
	resp, err := client.Login(username)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// confirm the new key before it is written to disk
	client.SetAPIKey(resp.APIKey)
	if _, err := client.GetMyPersonalDetails(); err != nil {
		return apiFailure("verify login", err)
	}

	cfg := &config.Config{
		APIKey:       resp.APIKey,
		AccountID:    resp.AccountID,
		Username:     resp.Username,
		BaseURL:      baseURL,
		PriorityMode: config.PriorityModeDefault,
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "logged in as %s\n", resp.Username)
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// LoginCmd returns the `sidechat login` command.
func LoginCmd() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a sidechat server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunInteractiveLogin(cmd.InOrStdin(), cmd.OutOrStdout(), server)
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "API base URL (default "+api.DefaultBaseURL+")")
	return cmd
}
