// Package transcript loads and saves the chat transcripts the TUI displays.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	pErrors "github.com/zhubert/followup/internal/errors"
)

// Roles a message can carry.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`                 // "user" or "assistant"
	Content   string    `json:"content"`
	Streaming bool      `json:"streaming,omitempty"`  // Response still being generated
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Transcript is an ordered conversation.
type Transcript struct {
	Title    string    `json:"title,omitempty"`
	Messages []Message `json:"messages"`
}

// Load reads a transcript from path, assigns IDs to messages that lack one,
// and validates it.
func Load(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pErrors.TranscriptLoadFailed(path, err)
	}
	return Parse(data)
}

// Parse decodes a transcript from JSON.
func Parse(data []byte) (*Transcript, error) {
	t := &Transcript{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, pErrors.TranscriptLoadFailed("<data>", err)
	}
	if t.Messages == nil {
		t.Messages = []Message{}
	}
	for i := range t.Messages {
		if t.Messages[i].ID == "" {
			t.Messages[i].ID = uuid.New().String()
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks roles and ID uniqueness.
func (t *Transcript) Validate() error {
	seen := make(map[string]bool, len(t.Messages))
	for i, m := range t.Messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return pErrors.TranscriptInvalid(fmt.Sprintf("message %d has unknown role %q", i, m.Role))
		}
		if m.Streaming && m.Role != RoleAssistant {
			return pErrors.TranscriptInvalid(fmt.Sprintf("message %d: only assistant messages can stream", i))
		}
		if seen[m.ID] {
			return pErrors.TranscriptInvalid(fmt.Sprintf("duplicate message ID %s", m.ID))
		}
		seen[m.ID] = true
	}
	return nil
}

// Save writes the transcript as indented JSON, creating parent directories.
func (t *Transcript) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return pErrors.TranscriptSaveFailed(path, err)
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return pErrors.TranscriptSaveFailed(path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return pErrors.TranscriptSaveFailed(path, err)
	}
	return nil
}

// Append adds a message, assigning an ID and timestamp.
func (t *Transcript) Append(role, content string) *Message {
	t.Messages = append(t.Messages, Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
	return &t.Messages[len(t.Messages)-1]
}

// Clone returns a copy that shares no messages with t.
func (t *Transcript) Clone() *Transcript {
	c := &Transcript{Title: t.Title, Messages: make([]Message, len(t.Messages))}
	copy(c.Messages, t.Messages)
	return c
}

// Streaming reports whether any message is still being generated.
func (t *Transcript) Streaming() bool {
	for _, m := range t.Messages {
		if m.Streaming {
			return true
		}
	}
	return false
}

// Demo returns the built-in transcript shown when no file is given.
func Demo() *Transcript {
	t := &Transcript{Title: "demo"}
	t.Append(RoleUser, "How do I stop a goroutine that is blocked reading from a channel?")
	t.Append(RoleAssistant, "You cannot kill a goroutine from the outside. Instead, give it a way to notice that it should stop.\n\n"+
		"The usual tool is a context.Context. Pass the context into the goroutine and select on ctx.Done() next to the channel read:\n\n"+
		"```go\nfor {\n\tselect {\n\tcase <-ctx.Done():\n\t\treturn ctx.Err()\n\tcase v, ok := <-in:\n\t\tif !ok {\n\t\t\treturn nil\n\t\t}\n\t\thandle(v)\n\t}\n}\n```\n\n"+
		"Closing the input channel works too, but only the sender should close it, and only once.")
	t.Append(RoleUser, "And what if the goroutine is blocked on a network read?")
	last := t.Append(RoleAssistant, "Network reads do not watch a context on their own. Set a deadline on the connection, or close the connection from another goroutine when the context is cancelled")
	last.Streaming = true
	return t
}
