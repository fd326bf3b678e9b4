package api

import "time"

// --- API Response Envelope ---

type apiResponse[T any] struct {
	Data  T       `json:"data"`
	Error *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QueryParams is a map of URL query parameters.
type QueryParams map[string]string

// --- Auth ---

// LoginInput defines the credentials for logging in.
type LoginInput struct {
	Username string `json:"username"`
}

// LoginResponse contains the session information after successful login.
type LoginResponse struct {
	APIKey    string `json:"api_key"`
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
}

// --- Reports ---

// Report is a conversation shown in the sidebar.
type Report struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Participants         []string  `json:"participants"`
	UnreadActionCount    int       `json:"unread_action_count"`
	LastMessageText      string    `json:"last_message_text,omitempty"`
	LastMessageTimestamp time.Time `json:"last_message_timestamp"`
	IsPinned             bool      `json:"is_pinned"`
}

// PersonalDetails describes another user as seen in report participants.
type PersonalDetails struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
}

// MyPersonalDetails describes the signed-in user.
type MyPersonalDetails struct {
	Login          string `json:"login"`
	DisplayName    string `json:"display_name"`
	Avatar         string `json:"avatar,omitempty"`
	ActivePolicyID string `json:"active_policy_id,omitempty"`
}

// AddCommentInput is the body for posting a message to a report.
type AddCommentInput struct {
	Text string `json:"text"`
}

// --- Workspaces ---

// Policy is a workspace as returned by the API.
type Policy struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	AvatarURL         string `json:"avatar_url"`
	OutputCurrency    string `json:"output_currency"`
	HasVBA            bool   `json:"has_vba"`
	IsPolicyUpdating  bool   `json:"is_policy_updating,omitempty"`
	IsAvatarUploading bool   `json:"is_avatar_uploading,omitempty"`
}

// UpdatePolicyInput defines the fields for updating a workspace.
type UpdatePolicyInput struct {
	Name           *string `json:"name,omitempty"`
	OutputCurrency *string `json:"output_currency,omitempty"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
}

// UploadAvatarInput points the server at the new avatar image.
type UploadAvatarInput struct {
	URI string `json:"uri"`
}

// Currency is a single entry of the currency list.
type Currency struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
}
