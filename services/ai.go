// services/ai.go - OpenRouter chat completion client and context builder
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"skillup/models"
)

const fallbackAIReply = "Sorry, I could not generate a response."

// AIMessage is one entry of an OpenAI-style chat completion request.
type AIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessageMetadata carries note-centric instructions attached to a chat
// message by the client.
type MessageMetadata struct {
	Action      string `json:"action"` // summarize, review, quiz
	NoteTitle   string `json:"note_title"`
	NoteContent string `json:"note_content"`
}

// AIClient calls an OpenRouter-compatible chat completions endpoint.
type AIClient struct {
	apiKey string
	apiURL string
	model  string
	http   *http.Client
}

// NewAIClient builds a client from OPENROUTER_API_KEY, OPENROUTER_API_URL and
// OPENROUTER_MODEL, with defaults matching the hosted OpenRouter service.
func NewAIClient() *AIClient {
	apiURL := os.Getenv("OPENROUTER_API_URL")
	if apiURL == "" {
		apiURL = "https://openrouter.ai/api/v1"
	}
	model := os.Getenv("OPENROUTER_MODEL")
	if model == "" {
		model = "google/gemma-3n-e4b-it:free"
	}
	return &AIClient{
		apiKey: os.Getenv("OPENROUTER_API_KEY"),
		apiURL: apiURL,
		model:  model,
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

type chatCompletionRequest struct {
	Model    string      `json:"model"`
	Messages []AIMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Complete sends the context to the model and returns the assistant reply.
// Failures degrade to an apology string so a flaky upstream never turns a
// chat request into a 500.
func (c *AIClient) Complete(messages []AIMessage) string {
	payload, err := json.Marshal(chatCompletionRequest{Model: c.model, Messages: messages})
	if err != nil {
		return fallbackAIReply
	}

	req, err := http.NewRequest(http.MethodPost, c.apiURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return fallbackAIReply
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Sprintf("%s Error: %s", fallbackAIReply, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("%s Error: upstream returned status %d", fallbackAIReply, resp.StatusCode)
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Sprintf("%s Error: %s", fallbackAIReply, err.Error())
	}
	if len(out.Choices) == 0 {
		return fallbackAIReply
	}
	return out.Choices[0].Message.Content
}

// contextWindow is how many of the latest messages are sent verbatim; older
// ones are squashed into a one-line summary to save tokens.
const contextWindow = 10

// BuildAIContext assembles the completion context for a session. A "note"
// message with summarize/review/quiz metadata short-circuits into a single
// system prompt built from the note itself.
func BuildAIContext(messages []models.ChatMessage, messageType string, metadata *MessageMetadata) []AIMessage {
	if messageType == "note" && metadata != nil && metadata.NoteContent != "" {
		if prompt, ok := notePrompt(metadata); ok {
			return []AIMessage{{Role: "system", Content: prompt}}
		}
	}

	var context []AIMessage

	if len(messages) > contextWindow {
		summary := "Summary of the earlier conversation: "
		for _, msg := range messages[:len(messages)-contextWindow] {
			summary += string(msg.Role) + ": " + truncate(msg.Content, 50) + ". "
		}
		context = append(context, AIMessage{Role: "system", Content: summary})
		messages = messages[len(messages)-contextWindow:]
	}

	for _, msg := range messages {
		context = append(context, AIMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return context
}

func notePrompt(metadata *MessageMetadata) (string, bool) {
	switch metadata.Action {
	case "summarize":
		return fmt.Sprintf("You are an assistant that summarizes notes. Here is the content of the note titled '%s':\n\n%s\n\nSummarize this note clearly and concisely.",
			metadata.NoteTitle, metadata.NoteContent), true
	case "review":
		return fmt.Sprintf("You are an assistant that reviews and improves notes. Here is the content of the note titled '%s':\n\n%s\n\nGive suggestions to improve this note.",
			metadata.NoteTitle, metadata.NoteContent), true
	case "quiz":
		return fmt.Sprintf("You are an assistant that creates quizzes from notes. Here is the content of the note titled '%s':\n\n%s\n\nCreate a quiz with multiple-choice questions.",
			metadata.NoteTitle, metadata.NoteContent), true
	}
	return "", false
}

func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
