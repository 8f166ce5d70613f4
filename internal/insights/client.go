// Package insights calls the hosted language model that writes the
// absenteeism summary. No analysis happens locally: the full attendance
// history is forwarded as structured context with a fixed instruction,
// and the model's prose comes back verbatim.
package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// instruction is the fixed prompt prefix. The record list is appended as
// JSON in the user message.
const instruction = "You are an assistant for a school teacher. The user message contains " +
	"a teacher id and that teacher's complete attendance records as JSON, ordered by date. " +
	"Each record has student_id, date, and timestamp. Write a short plain-prose analysis of " +
	"absenteeism patterns: students who are frequently absent, weekday patterns, and recent " +
	"changes. Do not return JSON or bullet fragments."

// RecordContext is one attendance record as sent to the model.
type RecordContext struct {
	StudentID string    `json:"student_id"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// Client calls an OpenAI-style chat completion endpoint. Skip short-
// circuits with canned prose for development and tests.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	Skip    bool
	HTTP    *http.Client
}

// New creates a client.
func New(baseURL, apiKey, model string, skip bool) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		Skip:    skip,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
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

type summaryContext struct {
	TeacherID string          `json:"teacher_id"`
	Records   []RecordContext `json:"records"`
}

// AbsenteeismSummary sends the history and returns the generated prose.
func (c *Client) AbsenteeismSummary(ctx context.Context, teacherID string, records []RecordContext) (string, error) {
	if c.Skip {
		return fmt.Sprintf("Attendance summary unavailable in development mode (%d records on file).", len(records)), nil
	}

	payload, err := json.Marshal(summaryContext{TeacherID: teacherID, Records: records})
	if err != nil {
		return "", fmt.Errorf("insights: marshal context: %w", err)
	}
	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: instruction},
			{Role: "user", Content: string(payload)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("insights: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("insights: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("insights: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("insights: model returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("insights: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("insights: empty completion")
	}
	return parsed.Choices[0].Message.Content, nil
}
