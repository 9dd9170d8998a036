// Package extract turns a speech transcript into a structured task
// draft using the OpenAI chat completions API.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jasonisamilehigh/taskme/internal/task"
)

const (
	openaiBaseURL      = "https://api.openai.com/v1/chat/completions"
	DefaultModel       = "gpt-4o-mini"
	openaiMaxRetries   = 3
	openaiInitialDelay = 1 * time.Second

	// defaultDueDays is how far out a task lands when the caller names
	// no date at all.
	defaultDueDays = 7
)

var (
	// ErrNotTask means the service decided the transcript does not
	// describe a task. The dialog re-prompts on this.
	ErrNotTask = errors.New("transcript is not a task")

	// ErrParse means the service reply contained no well-formed JSON
	// object. Treated the same as ErrNotTask by callers.
	ErrParse = errors.New("no JSON object in extraction reply")
)

// Client calls the extraction service. Safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	log     *logrus.Logger
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// draftPayload is the JSON contract the model is instructed to produce.
type draftPayload struct {
	Task     string `json:"task"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
	DueDate  string `json:"dueDate"`
	Error    string `json:"error"`
}

// NewClient creates an extraction client. An empty model selects
// DefaultModel.
func NewClient(apiKey, model string, log *logrus.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: openaiBaseURL,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// Extract sends the transcript to the model and parses the structured
// reply into a draft. Relative date phrases are resolved by the model
// against today; the client never interprets date language itself.
func (c *Client) Extract(ctx context.Context, transcript string, today time.Time) (*task.Draft, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("%w: empty transcript", ErrNotTask)
	}

	c.log.WithField("transcript", transcript).Debug("extracting task from transcript")

	text, err := c.complete(ctx, systemPrompt(today), transcript)
	if err != nil {
		return nil, err
	}

	raw, ok := firstJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("%w (raw: %.200s)", ErrParse, text)
	}

	var payload draftPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if payload.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrNotTask, payload.Error)
	}
	if strings.TrimSpace(payload.Task) == "" {
		return nil, fmt.Errorf("%w: reply had no task text", ErrNotTask)
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = task.DefaultStatus
	}

	due := strings.TrimSpace(payload.DueDate)
	if _, err := time.Parse(task.DateLayout, due); err != nil {
		due = today.AddDate(0, 0, defaultDueDays).Format(task.DateLayout)
	}

	return &task.Draft{
		Text:     strings.TrimSpace(payload.Task),
		Priority: task.ParsePriority(payload.Priority),
		Status:   status,
		DueDate:  due,
	}, nil
}

func systemPrompt(today time.Time) string {
	date := today.Format(task.DateLayout)
	weekday := today.Weekday().String()
	return fmt.Sprintf(`You extract a single task from a spoken transcript.
Today is %s, a %s.

Reply with ONLY a JSON object of this shape:
{"task": "...", "priority": "High|Medium|Low", "status": "Not Started", "dueDate": "YYYY-MM-DD"}

Rules:
- "task" is a short imperative description of what the caller wants done.
- "priority" defaults to "Medium" unless the caller signals urgency or the lack of it.
- "status" is always "Not Started".
- "dueDate" must be YYYY-MM-DD. Resolve relative phrases like "tomorrow",
  "next Wednesday" or "in 3 days" against today's date. If no date is
  expressed, use the date %d days from today.
- If the transcript does not describe a task, reply instead with
  {"error": "a short reason"}.`, date, weekday, defaultDueDays)
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < openaiMaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt))) * openaiInitialDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr chatError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
				lastErr = fmt.Errorf("OpenAI API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
			} else {
				lastErr = fmt.Errorf("OpenAI API error (%d): %s", resp.StatusCode, string(respBody))
			}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return "", lastErr
		}

		var apiResp chatResponse
		if err := json.Unmarshal(respBody, &apiResp); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(apiResp.Choices) == 0 {
			return "", fmt.Errorf("empty response from API")
		}
		return apiResp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("max retries (%d) exceeded: %w", openaiMaxRetries, lastErr)
}

// firstJSONObject locates the first well-formed JSON object in text.
// Markdown code fences around the reply are stripped first.
func firstJSONObject(text string) (json.RawMessage, bool) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[idx+1:]
		}
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	for i := strings.IndexByte(cleaned, '{'); i >= 0 && i < len(cleaned); {
		dec := json.NewDecoder(strings.NewReader(cleaned[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == nil && len(raw) > 0 && raw[0] == '{' {
			return raw, true
		}
		next := strings.IndexByte(cleaned[i+1:], '{')
		if next < 0 {
			break
		}
		i += 1 + next
	}
	return nil, false
}
