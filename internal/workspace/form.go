// Package workspace holds the workspace settings form: validation, submit and
// avatar handling, plus the currency picker items.
package workspace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gravitrone/sidechat/cli/internal/api"
)

// Beta names that unlock the settings page.
const (
	BetaFreePlan = "freePlan"
	BetaAll      = "all"
)

// PolicyService is the subset of the API client the form talks to.
type PolicyService interface {
	UpdatePolicy(id string, input api.UpdatePolicyInput) (*api.Policy, error)
	UploadPolicyAvatar(id string, uri string) (*api.Policy, error)
}

// Form is the editable state of the settings page.
type Form struct {
	Name             string `validate:"notblank_trimmed"`
	Currency         string `validate:"iso4217"`
	PreviewAvatarURL string
}

// NewForm seeds a form from the stored policy.
func NewForm(p api.Policy) Form {
	return Form{
		Name:             p.Name,
		Currency:         p.OutputCurrency,
		PreviewAvatarURL: p.AvatarURL,
	}
}

// Validate returns a *ValidationError for the first invalid field.
func (f Form) Validate() error {
	return validateStruct(f)
}

// Submit sends the trimmed name and currency. Nothing is sent while the policy is
// already updating or the form is invalid.
func (f Form) Submit(svc PolicyService, policy api.Policy) (*api.Policy, error) {
	if policy.IsPolicyUpdating {
		return nil, ErrPolicyUpdating
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(f.Name)
	currency := f.Currency
	updated, err := svc.UpdatePolicy(policy.ID, api.UpdatePolicyInput{
		Name:           &name,
		OutputCurrency: &currency,
	})
	if err != nil {
		return nil, fmt.Errorf("update workspace: %w", err)
	}
	return updated, nil
}

// UploadAvatar previews uri and uploads it, unless an upload is already running.
func (f *Form) UploadAvatar(svc PolicyService, policy api.Policy, uri string) (*api.Policy, error) {
	if policy.IsAvatarUploading {
		return nil, ErrAvatarUploading
	}
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, NewValidationError("avatar", "avatarRequired", nil)
	}
	f.PreviewAvatarURL = uri
	updated, err := svc.UploadPolicyAvatar(policy.ID, uri)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	return updated, nil
}

// RemoveAvatar clears the preview and the stored avatar.
func (f *Form) RemoveAvatar(svc PolicyService, policy api.Policy) (*api.Policy, error) {
	f.PreviewAvatarURL = ""
	empty := ""
	updated, err := svc.UpdatePolicy(policy.ID, api.UpdatePolicyInput{AvatarURL: &empty})
	if err != nil {
		return nil, fmt.Errorf("remove avatar: %w", err)
	}
	return updated, nil
}

// CurrencyItem is one entry of the currency picker.
type CurrencyItem struct {
	Value string
	Label string
}

// CurrencyItems turns the currency list into picker items sorted by code.
func CurrencyItems(list map[string]api.Currency) []CurrencyItem {
	items := make([]CurrencyItem, 0, len(list))
	for code, c := range list {
		items = append(items, CurrencyItem{
			Value: code,
			Label: fmt.Sprintf("%s - %s", code, c.Symbol),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Value < items[j].Value })
	return items
}

// CurrencyDisabled reports whether the currency picker is locked.
func CurrencyDisabled(p api.Policy) bool {
	return p.HasVBA
}

// CanUseFreePlan reports whether betas unlock the settings page.
func CanUseFreePlan(betas []string) bool {
	for _, b := range betas {
		if b == BetaFreePlan || b == BetaAll {
			return true
		}
	}
	return false
}
