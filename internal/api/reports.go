package api

import (
	"fmt"
	"net/url"
	"strconv"
)

// --- Report Methods ---

// ListReports returns every report visible to the signed-in user.
func (c *Client) ListReports() ([]Report, error) {
	data, err := c.get("/api/reports")
	if err != nil {
		return nil, err
	}
	return decodeList[Report](data)
}

// SearchReports asks the server to filter reports by name or participant.
func (c *Client) SearchReports(query string, limit int) ([]Report, error) {
	params := QueryParams{"search_text": query}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	data, err := c.get(buildQuery("/api/reports", params))
	if err != nil {
		return nil, err
	}
	return decodeList[Report](data)
}

// AddComment posts text to a report and returns the updated report.
func (c *Client) AddComment(reportID, text string) (*Report, error) {
	data, err := c.post(fmt.Sprintf("/api/reports/%s/comments", url.PathEscape(reportID)), AddCommentInput{Text: text})
	if err != nil {
		return nil, err
	}
	return decodeOne[Report](data)
}

// ListPersonalDetails returns details for everyone the user shares a report with,
// keyed by login.
func (c *Client) ListPersonalDetails() (map[string]PersonalDetails, error) {
	data, err := c.get("/api/personal-details")
	if err != nil {
		return nil, err
	}
	items, err := decodeList[PersonalDetails](data)
	if err != nil {
		return nil, err
	}
	out := make(map[string]PersonalDetails, len(items))
	for _, item := range items {
		out[item.Login] = item
	}
	return out, nil
}

// GetMyPersonalDetails returns the signed-in user's profile.
func (c *Client) GetMyPersonalDetails() (*MyPersonalDetails, error) {
	data, err := c.get("/api/me")
	if err != nil {
		return nil, err
	}
	return decodeOne[MyPersonalDetails](data)
}

// ListBetas returns the beta features enabled for the user.
func (c *Client) ListBetas() ([]string, error) {
	data, err := c.get("/api/me/betas")
	if err != nil {
		return nil, err
	}
	return decodeList[string](data)
}
