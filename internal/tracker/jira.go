// Package tracker pushes ideas to an external issue tracker.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// JiraConfig holds Jira Cloud connection settings
type JiraConfig struct {
	BaseURL    string
	Email      string
	APIToken   string
	ProjectKey string
	IssueType  string
}

// JiraClient creates issues in a Jira Cloud project via the REST v3 API
type JiraClient struct {
	config     JiraConfig
	httpClient *http.Client
}

// NewJiraClient creates a new Jira client
func NewJiraClient(config JiraConfig) *JiraClient {
	if config.IssueType == "" {
		config.IssueType = "Task"
	}
	return &JiraClient{
		config:     config,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// IsConfigured reports whether the client has enough settings to talk to Jira
func (c *JiraClient) IsConfigured() bool {
	return c.config.BaseURL != "" && c.config.Email != "" && c.config.APIToken != "" && c.config.ProjectKey != ""
}

// adfDoc wraps plain text in the Atlassian Document Format the v3 API
// requires for description fields.
func adfDoc(text string) map[string]interface{} {
	return map[string]interface{}{
		"type":    "doc",
		"version": 1,
		"content": []map[string]interface{}{
			{
				"type": "paragraph",
				"content": []map[string]interface{}{
					{"type": "text", "text": text},
				},
			},
		},
	}
}

type createIssueResponse struct {
	Key string `json:"key"`
}

// CreateIssue files a new issue and returns its key (e.g. "SPROUT-42").
func (c *JiraClient) CreateIssue(ctx context.Context, summary, description string) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("jira is not configured")
	}
	if description == "" {
		description = summary
	}

	payload := map[string]interface{}{
		"fields": map[string]interface{}{
			"project":     map[string]string{"key": c.config.ProjectKey},
			"summary":     summary,
			"description": adfDoc(description),
			"issuetype":   map[string]string{"name": c.config.IssueType},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal issue payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/rest/api/3/issue", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build issue request: %w", err)
	}
	req.SetBasicAuth(c.config.Email, c.config.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call jira: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("jira returned %d: %s", resp.StatusCode, detail)
	}

	var created createIssueResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode issue response: %w", err)
	}
	if created.Key == "" {
		return "", fmt.Errorf("jira response missing issue key")
	}
	return created.Key, nil
}
