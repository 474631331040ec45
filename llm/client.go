package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gitpulse/github"
	"gitpulse/service"
)

const systemPrompt = `You summarize one day of git commits for a student mentoring dashboard.
Respond with a JSON object: {"summary": "<2-3 sentence prose summary>",
"highlights": ["<notable change>", ...], "changed_files": ["<path>", ...]}.
Keep highlights to at most five entries.`

// Client generates day summaries through an OpenAI-compatible chat
// completions endpoint. It implements service.Summarizer.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates an LLM summarizer client
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// SummarizeDay sends the day's commit messages to the model and parses
// the structured summary out of its reply.
func (c *Client) SummarizeDay(ctx context.Context, repo string, date time.Time, commits []github.RepoCommit) (*service.DaySummary, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Repository: %s\nDate: %s\nCommits:\n", repo, date.Format("2006-01-02"))
	for _, commit := range commits {
		fmt.Fprintf(&prompt, "- %s\n", firstLine(commit.Message))
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt.String()},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build summary request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("summary request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("summary endpoint returned status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, fmt.Errorf("failed to decode summary response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("summary response contained no choices")
	}

	return parseSummary(chat.Choices[0].Message.Content)
}

// parseSummary extracts the JSON document from the model reply, which
// may be wrapped in a markdown code fence.
func parseSummary(content string) (*service.DaySummary, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	var parsed struct {
		Summary      string   `json:"summary"`
		Highlights   []string `json:"highlights"`
		ChangedFiles []string `json:"changed_files"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse summary JSON: %w", err)
	}
	if parsed.Summary == "" {
		return nil, fmt.Errorf("summary JSON missing summary field")
	}

	return &service.DaySummary{
		Summary:      parsed.Summary,
		Highlights:   parsed.Highlights,
		ChangedFiles: parsed.ChangedFiles,
	}, nil
}

func firstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		return message[:idx]
	}
	return message
}
