// Package translator turns natural-language questions into SQL against a
// schema given as raw DDL text.
package translator

import (
	"context"
)

// NoExplanation is used when the model answers without an explanation
const NoExplanation = "No explanation provided."

// Translation is the answer to one question
type Translation struct {
	SQL         string `json:"sql"`
	Explanation string `json:"explanation"`
	Error       string `json:"error,omitempty"`
}

// Failed reports whether the translation carries an error
func (t *Translation) Failed() bool {
	return t.Error != ""
}

// Translator is the NL-to-SQL collaborator. Implementations report service
// failures inside Translation.Error and reserve the error return for
// cancellation.
type Translator interface {
	Translate(ctx context.Context, question, schemaText string) (*Translation, error)
	SuggestQuestions(ctx context.Context, schemaText string) ([]string, error)
}

// DefaultQuestions are suggested when no suggestions can be generated
var DefaultQuestions = []string{
	"How many users do we have?",
	"What is the total sales amount?",
	"Find the top 5 customers by order value",
	"What is the average order value?",
	"Which products were ordered most frequently?",
}

// defaults returns a copy of the first n default questions
func defaults(n int) []string {
	if n > len(DefaultQuestions) {
		n = len(DefaultQuestions)
	}
	out := make([]string, n)
	copy(out, DefaultQuestions[:n])
	return out
}
