// Package validation holds input rules shared by handlers and tests.
package validation

import (
	"strings"

	"vayam/models"
)

const (
	// MaxCommentChars bounds the raw text length; MinWords/MaxWords bound the
	// whitespace-separated word count.
	MaxCommentChars = 10000
	MinWords        = 1
	MaxWords        = 80
)

// CommentText validates a comment body: non-empty, at most MaxCommentChars
// raw characters, and between MinWords and MaxWords words.
func CommentText(txt string) error {
	trimmed := strings.TrimSpace(txt)
	if trimmed == "" {
		return models.NewValidationError("Comment cannot be empty")
	}
	if len(txt) > MaxCommentChars {
		return models.NewValidationError("Comment cannot exceed 10000 characters")
	}
	words := len(strings.Fields(trimmed))
	if words < MinWords || words > MaxWords {
		return models.NewValidationError("Comment must be between 1 and 80 words")
	}
	return nil
}

// VoteValue validates a vote payload value.
func VoteValue(v int) error {
	if !models.ValidVoteValue(v) {
		return models.NewValidationError("Vote must be between -1 and 1")
	}
	return nil
}
