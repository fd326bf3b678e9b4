package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/gravitrone/sidechat/cli/internal/api"
	"github.com/gravitrone/sidechat/cli/internal/config"
)

// loadClient reads the saved config and builds a client for it.
func loadClient() (*config.Config, *api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("not logged in: %w", err)
	}
	return cfg, api.NewClientFor(cfg.BaseURL, cfg.APIKey), nil
}

// apiFailure wraps err with what was being attempted and points at `sidechat login`
// when the server rejected the saved key.
func apiFailure(action string, err error) error {
	if api.IsUnauthorized(err) {
		return fmt.Errorf("%s: api key rejected, run `sidechat login` again: %w", action, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func newTable(headers ...any) *uitable.Table {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = bold.Sprint(h)
	}
	tbl.AddRow(row...)
	return tbl
}

func printTable(out io.Writer, tbl *uitable.Table) {
	_, _ = fmt.Fprintln(out, tbl)
}
