package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

// DefaultModel is the chat model used when none is configured
const DefaultModel = "gpt-4o"

const missingKeyMessage = "OpenAI API key not found. Please set the OPENAI_API_KEY environment variable."

const translateSystemPrompt = `You are an expert SQL generator that converts natural language questions into accurate SQL queries.
Given a database schema and a natural language question, generate the most appropriate SQL query.

Provide your response in JSON format with the following fields:
- sql: The generated SQL query
- explanation: A step-by-step explanation of how the SQL query works and why you chose this approach

Important:
- Use only tables and columns from the provided schema
- Avoid using functions that might not exist in all SQL implementations
- For ambiguous questions, make reasonable assumptions
- If the query is impossible to generate with the given schema, provide an explanation why`

const suggestSystemPrompt = `You are an expert at analyzing database schemas and generating useful example queries.
Given a database schema, generate 5 useful natural language questions that users might ask.

Provide your response as a JSON object with a "questions" field holding an array of strings.

Your questions should:
- Cover a range of SQL features (selects, joins, grouping, filtering, etc.)
- Be diverse and practical
- Reference actual tables and columns from the schema
- Be phrased as natural language questions, not SQL`

// Config configures the OpenAI translator
type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint, e.g. for a compatible gateway
	BaseURL string
}

// OpenAI translates questions with the OpenAI chat completions API
type OpenAI struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// NewOpenAI creates a translator. Without an API key every call answers with
// a missing-key error or the default questions.
func NewOpenAI(cfg Config, logger zerolog.Logger) *OpenAI {
	t := &OpenAI{
		model:  cfg.Model,
		logger: logger,
	}
	if t.model == "" {
		t.model = DefaultModel
	}

	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		t.client = openai.NewClientWithConfig(clientCfg)
	}
	return t
}

// Translate generates SQL answering question against schemaText
func (t *OpenAI) Translate(ctx context.Context, question, schemaText string) (*Translation, error) {
	if t.client == nil {
		return &Translation{Error: missingKeyMessage}, nil
	}

	user := fmt.Sprintf("Database Schema:\n```\n%s\n```\n\nNatural Language Question:\n```\n%s\n```\n\nGenerate a SQL query that answers this question based on the schema.", schemaText, question)

	content, err := t.complete(ctx, translateSystemPrompt, user)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		t.logger.Warn().Err(err).Msg("SQL generation failed")
		return &Translation{Error: fmt.Sprintf("Error while generating SQL: %v", err)}, nil
	}

	translation, err := parseTranslation(content)
	if err != nil {
		t.logger.Warn().Err(err).Msg("SQL generation returned an invalid answer")
		return &Translation{Error: fmt.Sprintf("Error while generating SQL: %v", err)}, nil
	}
	return translation, nil
}

// SuggestQuestions generates example questions for schemaText, falling back
// to DefaultQuestions when the service cannot help.
func (t *OpenAI) SuggestQuestions(ctx context.Context, schemaText string) ([]string, error) {
	if t.client == nil {
		return defaults(3), nil
	}

	user := fmt.Sprintf("Database Schema:\n```\n%s\n```\n\nGenerate 5 diverse and practical natural language questions that users might ask about this database.", schemaText)

	content, err := t.complete(ctx, suggestSystemPrompt, user)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		t.logger.Warn().Err(err).Msg("question suggestion failed")
		return defaults(len(DefaultQuestions)), nil
	}

	questions, err := parseQuestions(content)
	if err != nil {
		t.logger.Warn().Err(err).Msg("question suggestion returned an invalid answer")
		return defaults(len(DefaultQuestions)), nil
	}
	return questions, nil
}

// complete sends one system and one user message and returns the reply text
func (t *OpenAI) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// parseTranslation decodes the JSON answer, filling in missing fields
func parseTranslation(content string) (*Translation, error) {
	var raw struct {
		SQL         *string `json:"sql"`
		Explanation *string `json:"explanation"`
		Error       string  `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode answer: %w", err)
	}

	tr := &Translation{Explanation: NoExplanation, Error: raw.Error}
	if raw.SQL != nil {
		tr.SQL = strings.TrimSpace(*raw.SQL)
	}
	if raw.Explanation != nil {
		tr.Explanation = *raw.Explanation
	}
	return tr, nil
}

// parseQuestions accepts a bare array, an object with "questions" or
// "examples", or any object holding a non-empty string array.
func parseQuestions(content string) ([]string, error) {
	var list []string
	if err := json.Unmarshal([]byte(content), &list); err == nil && len(list) > 0 {
		return list, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &obj); err != nil {
		return nil, fmt.Errorf("failed to decode answer: %w", err)
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		if k != "questions" && k != "examples" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	keys = append([]string{"questions", "examples"}, keys...)

	for _, k := range keys {
		value, ok := obj[k]
		if !ok {
			continue
		}
		var questions []string
		if err := json.Unmarshal(value, &questions); err == nil && len(questions) > 0 {
			return questions, nil
		}
	}
	return nil, fmt.Errorf("answer holds no list of questions")
}
