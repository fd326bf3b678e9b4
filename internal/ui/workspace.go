package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/sidechat/cli/internal/api"
	"github.com/gravitrone/sidechat/cli/internal/i18n"
	"github.com/gravitrone/sidechat/cli/internal/logging"
	"github.com/gravitrone/sidechat/cli/internal/ui/components"
	"github.com/gravitrone/sidechat/cli/internal/workspace"
)

const (
	fieldName = iota
	fieldCurrency
	fieldAvatar
	fieldCount
)

type workspaceLoadedMsg struct {
	betas      []string
	policy     *api.Policy
	currencies map[string]api.Currency
}

type workspaceSavedMsg struct {
	policy *api.Policy
	err    error
}

type avatarUpdatedMsg struct {
	policy *api.Policy
	err    error
}

type workspaceClosedMsg struct {
	notAllowed bool
}

// WorkspaceModel is the workspace settings page.
type WorkspaceModel struct {
	client   *api.Client
	tr       *i18n.Translator
	log      *logging.Logger
	policyID string
	policy   *api.Policy
	form     workspace.Form
	items    []workspace.CurrencyItem

	focus         int
	name          textinput.Model
	avatar        textinput.Model
	confirmRemove bool
	fieldErr      *workspace.ValidationError
	width         int
	height        int
}

// NewWorkspaceModel builds the settings page.
func NewWorkspaceModel(client *api.Client, tr *i18n.Translator, log *logging.Logger) WorkspaceModel {
	name := textinput.New()
	name.Prompt = ""
	name.CharLimit = 100

	avatar := textinput.New()
	avatar.Prompt = ""
	avatar.Placeholder = tr.T("workspaceSettings.avatarPlaceholder")

	return WorkspaceModel{
		client: client,
		tr:     tr,
		log:    log,
		name:   name,
		avatar: avatar,
	}
}

// Open resets the page for policyID and starts loading it.
func (m *WorkspaceModel) Open(policyID string) tea.Cmd {
	m.policyID = policyID
	m.policy = nil
	m.items = nil
	m.focus = fieldName
	m.confirmRemove = false
	m.fieldErr = nil
	m.name.SetValue("")
	m.avatar.SetValue("")
	return m.load()
}

func (m WorkspaceModel) load() tea.Cmd {
	client := m.client
	policyID := m.policyID
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		betas, err := client.ListBetas()
		if err != nil {
			return errMsg{err}
		}
		if !workspace.CanUseFreePlan(betas) {
			return workspaceLoadedMsg{betas: betas}
		}
		policy, err := client.GetPolicy(policyID)
		if err != nil {
			return errMsg{err}
		}
		currencies, err := client.ListCurrencies()
		if err != nil {
			return errMsg{err}
		}
		return workspaceLoadedMsg{betas: betas, policy: policy, currencies: currencies}
	}
}

func (m WorkspaceModel) Update(msg tea.Msg) (WorkspaceModel, tea.Cmd) {
	switch msg := msg.(type) {
	case workspaceLoadedMsg:
		if !workspace.CanUseFreePlan(msg.betas) {
			m.log.WithFields(map[string]any{"policy_id": m.policyID}).Info("workspace settings dismissed: free plan beta missing")
			return m, func() tea.Msg { return workspaceClosedMsg{notAllowed: true} }
		}
		m.items = workspace.CurrencyItems(msg.currencies)
		m.setPolicy(msg.policy)
		cmd := m.name.Focus()
		return m, cmd

	case workspaceSavedMsg:
		if msg.err != nil {
			if m.policy != nil {
				m.policy.IsPolicyUpdating = false
			}
			cmd := m.surface(msg.err)
			return m, cmd
		}
		m.setPolicy(msg.policy)
		return m, nil

	case avatarUpdatedMsg:
		if msg.err != nil {
			if m.policy != nil {
				m.policy.IsAvatarUploading = false
			}
			cmd := m.surface(msg.err)
			return m, cmd
		}
		if msg.policy != nil {
			m.policy.AvatarURL = msg.policy.AvatarURL
			m.policy.IsAvatarUploading = false
			m.form.PreviewAvatarURL = msg.policy.AvatarURL
		}
		return m, nil

	case tea.KeyMsg:
		if m.policy == nil {
			if isBack(msg) {
				return m, func() tea.Msg { return workspaceClosedMsg{} }
			}
			return m, nil
		}
		if m.confirmRemove {
			switch {
			case isKey(msg, "y"):
				m.confirmRemove = false
				return m.removeAvatar()
			case isKey(msg, "n"), isBack(msg):
				m.confirmRemove = false
			}
			return m, nil
		}
		switch {
		case isBack(msg):
			return m, func() tea.Msg { return workspaceClosedMsg{} }
		case isSave(msg):
			return m.submit()
		case isNextField(msg):
			cmd := m.setFocus((m.focus + 1) % fieldCount)
			return m, cmd
		case isPrevField(msg):
			cmd := m.setFocus((m.focus - 1 + fieldCount) % fieldCount)
			return m, cmd
		}
		switch m.focus {
		case fieldName:
			var cmd tea.Cmd
			m.name, cmd = m.name.Update(msg)
			m.form.Name = m.name.Value()
			return m, cmd
		case fieldCurrency:
			if workspace.CurrencyDisabled(*m.policy) {
				return m, nil
			}
			switch {
			case isKey(msg, "left"):
				m.cycleCurrency(-1)
			case isKey(msg, "right"), isKey(msg, " "):
				m.cycleCurrency(1)
			}
			return m, nil
		case fieldAvatar:
			switch {
			case isEnter(msg):
				return m.uploadAvatar()
			case isKey(msg, "ctrl+d"):
				if m.form.PreviewAvatarURL != "" {
					m.confirmRemove = true
				}
				return m, nil
			}
			var cmd tea.Cmd
			m.avatar, cmd = m.avatar.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *WorkspaceModel) setPolicy(p *api.Policy) {
	if p == nil {
		return
	}
	policy := *p
	m.policy = &policy
	m.form = workspace.NewForm(policy)
	m.name.SetValue(policy.Name)
	m.name.CursorEnd()
	m.fieldErr = nil
}

func (m *WorkspaceModel) setFocus(field int) tea.Cmd {
	m.focus = field
	m.name.Blur()
	m.avatar.Blur()
	switch field {
	case fieldName:
		return m.name.Focus()
	case fieldAvatar:
		return m.avatar.Focus()
	}
	return nil
}

func (m *WorkspaceModel) cycleCurrency(delta int) {
	if len(m.items) == 0 {
		return
	}
	idx := 0
	for i, item := range m.items {
		if item.Value == m.form.Currency {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(m.items)) % len(m.items)
	m.form.Currency = m.items[idx].Value
}

func (m WorkspaceModel) submit() (WorkspaceModel, tea.Cmd) {
	m.form.Name = m.name.Value()
	if err := m.form.Validate(); err != nil {
		cmd := m.surface(err)
		return m, cmd
	}
	m.fieldErr = nil
	if m.policy.IsPolicyUpdating {
		return m, nil
	}
	policy := *m.policy
	form := m.form
	client := m.client
	m.policy.IsPolicyUpdating = true
	return m, func() tea.Msg {
		updated, err := form.Submit(client, policy)
		return workspaceSavedMsg{policy: updated, err: err}
	}
}

func (m WorkspaceModel) uploadAvatar() (WorkspaceModel, tea.Cmd) {
	if m.policy.IsAvatarUploading {
		return m, nil
	}
	uri := strings.TrimSpace(m.avatar.Value())
	if uri == "" {
		cmd := m.surface(workspace.NewValidationError("avatar", "avatarRequired", nil))
		return m, cmd
	}
	policy := *m.policy
	m.fieldErr = nil
	m.form.PreviewAvatarURL = uri
	m.policy.IsAvatarUploading = true
	m.avatar.SetValue("")
	client := m.client
	form := m.form
	return m, func() tea.Msg {
		updated, err := form.UploadAvatar(client, policy, uri)
		return avatarUpdatedMsg{policy: updated, err: err}
	}
}

func (m WorkspaceModel) removeAvatar() (WorkspaceModel, tea.Cmd) {
	policy := *m.policy
	m.form.PreviewAvatarURL = ""
	client := m.client
	form := m.form
	return m, func() tea.Msg {
		updated, err := form.RemoveAvatar(client, policy)
		return avatarUpdatedMsg{policy: updated, err: err}
	}
}

// surface keeps field errors inline and forwards everything else to the app.
func (m *WorkspaceModel) surface(err error) tea.Cmd {
	var ve *workspace.ValidationError
	if errors.As(err, &ve) {
		m.fieldErr = ve
		return nil
	}
	return func() tea.Msg { return errMsg{err} }
}

// Dirty reports whether the form differs from the stored policy.
func (m WorkspaceModel) Dirty() bool {
	if m.policy == nil {
		return false
	}
	return strings.TrimSpace(m.name.Value()) != m.policy.Name || m.form.Currency != m.policy.OutputCurrency
}

func (m WorkspaceModel) View() string {
	title := m.tr.T("workspaceSettings.title")
	if m.policy == nil {
		return components.Indent(components.TitledBox(title, MutedStyle.Render(m.tr.T("common.loading")), m.width), 1)
	}
	if m.confirmRemove {
		return components.Indent(components.ConfirmDialog(m.tr.T("workspaceSettings.removeAvatar"), m.tr.T("workspaceSettings.avatar")+": "+m.form.PreviewAvatarURL), 1)
	}

	var b strings.Builder
	b.WriteString(m.renderField(fieldName, m.tr.T("workspaceSettings.name"), m.name.View()))
	b.WriteString("\n\n")

	currency := m.form.Currency
	for _, item := range m.items {
		if item.Value == m.form.Currency {
			currency = item.Label
			break
		}
	}
	if workspace.CurrencyDisabled(*m.policy) {
		currency = DisabledStyle.Render(currency) + "\n" + MutedStyle.Render(m.tr.T("workspaceSettings.currencyLocked"))
	} else {
		currency = "< " + currency + " >"
	}
	b.WriteString(m.renderField(fieldCurrency, m.tr.T("workspaceSettings.currency"), currency))
	b.WriteString("\n\n")

	preview := components.SanitizeOneLine(m.form.PreviewAvatarURL)
	if preview == "" {
		preview = "-"
	}
	if m.policy.IsAvatarUploading {
		preview += " " + MutedStyle.Render(m.tr.T("common.loading"))
	}
	b.WriteString(m.renderField(fieldAvatar, m.tr.T("workspaceSettings.avatar"), preview+"\n"+m.avatar.View()))

	if m.fieldErr != nil {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render(m.tr.T("workspaceSettings.errors." + m.fieldErr.Message)))
	}
	if m.policy.IsPolicyUpdating {
		b.WriteString("\n\n" + MutedStyle.Render(m.tr.T("common.loading")))
	}

	header := fmt.Sprintf("%s · %s", title, components.SanitizeOneLine(m.policy.Name))
	return components.Indent(components.TitledBox(header, b.String(), m.width), 1)
}

func (m WorkspaceModel) renderField(field int, label, value string) string {
	marker := "  "
	labelStyle := FieldLabelStyle
	if m.focus == field {
		marker = SelectedStyle.Render("> ")
		labelStyle = SelectedStyle
	}
	return marker + labelStyle.Render(label) + "\n  " + value
}
