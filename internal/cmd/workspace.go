package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/sidechat/cli/internal/api"
	"github.com/gravitrone/sidechat/cli/internal/workspace"
)

// WorkspaceCmd returns the `sidechat workspace` command group.
func WorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Show or edit workspace settings",
	}
	cmd.AddCommand(workspaceShowCmd())
	cmd.AddCommand(workspaceUpdateCmd())
	return cmd
}

// resolvePolicy checks the beta gate and loads the requested workspace, falling
// back to the user's active one.
func resolvePolicy(client *api.Client, policyID string) (*api.Policy, error) {
	betas, err := client.ListBetas()
	if err != nil {
		return nil, apiFailure("list betas", err)
	}
	if !workspace.CanUseFreePlan(betas) {
		return nil, workspace.ErrNotAllowed
	}
	if strings.TrimSpace(policyID) == "" {
		me, err := client.GetMyPersonalDetails()
		if err != nil {
			return nil, apiFailure("load profile", err)
		}
		policyID = me.ActivePolicyID
	}
	if policyID == "" {
		return nil, errors.New("no active workspace; pass --policy")
	}
	policy, err := client.GetPolicy(policyID)
	if err != nil {
		return nil, apiFailure("load workspace", err)
	}
	return policy, nil
}

func workspaceShowCmd() *cobra.Command {
	var policyID string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show workspace settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, client, err := loadClient()
			if err != nil {
				return err
			}
			policy, err := resolvePolicy(client, policyID)
			if err != nil {
				return err
			}

			avatar := policy.AvatarURL
			if avatar == "" {
				avatar = "-"
			}
			currency := policy.OutputCurrency
			if workspace.CurrencyDisabled(*policy) {
				currency += " (locked)"
			}
			tbl := newTable("FIELD", "VALUE")
			tbl.AddRow("id", policy.ID)
			tbl.AddRow("name", policy.Name)
			tbl.AddRow("currency", currency)
			tbl.AddRow("avatar", avatar)
			printTable(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
	cmd.Flags().StringVar(&policyID, "policy", "", "workspace ID (default: active workspace)")
	return cmd
}

func workspaceUpdateCmd() *cobra.Command {
	var policyID, name, currency, avatar string
	var removeAvatar bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update workspace name, currency or avatar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" && currency == "" && avatar == "" && !removeAvatar {
				return errors.New("nothing to update: pass --name, --currency, --avatar or --remove-avatar")
			}
			_, client, err := loadClient()
			if err != nil {
				return err
			}
			policy, err := resolvePolicy(client, policyID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			form := workspace.NewForm(*policy)
			if name != "" || currency != "" {
				if currency != "" && currency != policy.OutputCurrency && workspace.CurrencyDisabled(*policy) {
					return errors.New("currency is locked while a bank account is verified")
				}
				if name != "" {
					form.Name = name
				}
				if currency != "" {
					form.Currency = strings.ToUpper(strings.TrimSpace(currency))
				}
				updated, err := form.Submit(client, *policy)
				if err != nil {
					return err
				}
				policy = updated
				fmt.Fprintf(out, "workspace %s saved\n", policy.ID)
			}

			switch {
			case removeAvatar:
				if _, err := form.RemoveAvatar(client, *policy); err != nil {
					return err
				}
				fmt.Fprintln(out, "avatar removed")
			case avatar != "":
				if _, err := form.UploadAvatar(client, *policy, avatar); err != nil {
					return err
				}
				fmt.Fprintln(out, "avatar updated")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&policyID, "policy", "", "workspace ID (default: active workspace)")
	cmd.Flags().StringVar(&name, "name", "", "new workspace name")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 currency code")
	cmd.Flags().StringVar(&avatar, "avatar", "", "image URI for the workspace avatar")
	cmd.Flags().BoolVar(&removeAvatar, "remove-avatar", false, "remove the workspace avatar")
	return cmd
}
