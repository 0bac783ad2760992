// Package session keeps the state of one schema conversation: the loaded
// schema text and model, suggested questions and the chat history.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tordrt/askdb/internal/ddl"
	"github.com/tordrt/askdb/internal/schema"
	"github.com/tordrt/askdb/internal/translator"
)

var (
	// ErrNotFound is returned for an unknown session ID
	ErrNotFound = errors.New("session not found")
	// ErrNoSchema is returned when a question is asked before a schema is loaded
	ErrNoSchema = errors.New("no schema loaded")
	// ErrEmptyQuestion is returned for a blank question
	ErrEmptyQuestion = errors.New("question is empty")
)

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat entry. Assistant messages carry the translation.
type Message struct {
	Role        Role                    `json:"role"`
	Content     string                  `json:"content,omitempty"`
	Translation *translator.Translation `json:"translation,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

// SchemaParser parses DDL text in a given mode. *cache.ParseCache implements it.
type SchemaParser interface {
	Parse(text string, mode ddl.Mode) (*ddl.Result, error)
}

// Session is one conversation about one schema
type Session struct {
	id         string
	createdAt  time.Time
	parser     SchemaParser
	translator translator.Translator

	mu          sync.RWMutex
	source      string
	schemaText  string
	result      *ddl.Result
	suggestions []string
	messages    []Message
}

// Snapshot is a point-in-time copy of a session's state
type Snapshot struct {
	ID          string           `json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	Source      string           `json:"source,omitempty"`
	SchemaText  string           `json:"schema_text,omitempty"`
	Schema      *schema.Schema   `json:"schema,omitempty"`
	Diagnostics []ddl.Diagnostic `json:"diagnostics,omitempty"`
	Suggestions []string         `json:"suggestions"`
	Messages    []Message        `json:"messages"`
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// LoadSchema parses text and replaces the session's schema wholesale.
// source names where the text came from, e.g. a sample name. On a parse
// failure the previous schema stays loaded.
func (s *Session) LoadSchema(ctx context.Context, source, text string, mode ddl.Mode) (*ddl.Result, error) {
	result, err := s.parser.Parse(text, mode)
	if err != nil {
		return nil, err
	}

	suggestions, err := s.translator.SuggestQuestions(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest questions: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
	s.schemaText = text
	s.result = result
	s.suggestions = suggestions
	return result, nil
}

// Ask translates a question against the loaded schema text and records the
// exchange. Translator failures are recorded as an assistant error message.
func (s *Session) Ask(ctx context.Context, question string) (*translator.Translation, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	s.mu.RLock()
	schemaText := s.schemaText
	loaded := s.result != nil
	s.mu.RUnlock()
	if !loaded {
		return nil, ErrNoSchema
	}

	asked := time.Now()
	tr, err := s.translator.Translate(ctx, question, schemaText)
	if err != nil {
		tr = &translator.Translation{Error: fmt.Sprintf("Error generating SQL: %v", err)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages,
		Message{Role: RoleUser, Content: question, CreatedAt: asked},
		Message{Role: RoleAssistant, Translation: tr, CreatedAt: time.Now()},
	)
	return tr, nil
}

// Clear removes the chat history and keeps the schema
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Snapshot copies the session's current state
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		ID:          s.id,
		CreatedAt:   s.createdAt,
		Source:      s.source,
		SchemaText:  s.schemaText,
		Suggestions: append([]string{}, s.suggestions...),
		Messages:    append([]Message{}, s.messages...),
	}
	if s.result != nil {
		snap.Schema = s.result.Schema
		snap.Diagnostics = s.result.Diagnostics
	}
	return snap
}
