package api

import (
	"fmt"
	"net/url"
)

// --- Workspace Methods ---

func (c *Client) GetPolicy(id string) (*Policy, error) {
	data, err := c.get(fmt.Sprintf("/api/policies/%s", url.PathEscape(id)))
	if err != nil {
		return nil, err
	}
	return decodeOne[Policy](data)
}

func (c *Client) UpdatePolicy(id string, input UpdatePolicyInput) (*Policy, error) {
	data, err := c.patch(fmt.Sprintf("/api/policies/%s", url.PathEscape(id)), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Policy](data)
}

func (c *Client) UploadPolicyAvatar(id string, uri string) (*Policy, error) {
	data, err := c.post(fmt.Sprintf("/api/policies/%s/avatar", url.PathEscape(id)), UploadAvatarInput{URI: uri})
	if err != nil {
		return nil, err
	}
	return decodeOne[Policy](data)
}

// ListCurrencies returns the supported currencies keyed by ISO code.
func (c *Client) ListCurrencies() (map[string]Currency, error) {
	data, err := c.get("/api/currencies")
	if err != nil {
		return nil, err
	}
	list, err := decodeOne[map[string]Currency](data)
	if err != nil {
		return nil, err
	}
	return *list, nil
}
