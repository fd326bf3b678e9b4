package api

import "time"

// DefaultBaseURL is the API target used when the config does not set one.
const DefaultBaseURL = "http://localhost:8000"

// NewDefaultClient builds a client pointed at the default API URL.
func NewDefaultClient(apiKey string, timeout ...time.Duration) *Client {
	return NewClient(DefaultBaseURL, apiKey, timeout...)
}

// NewClientFor picks baseURL when set and falls back to DefaultBaseURL.
func NewClientFor(baseURL, apiKey string, timeout ...time.Duration) *Client {
	if baseURL == "" {
		return NewDefaultClient(apiKey, timeout...)
	}
	return NewClient(baseURL, apiKey, timeout...)
}
