package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommentText(t *testing.T) {
	tests := []struct {
		name    string
		txt     string
		wantErr bool
	}{
		{"single word", "Agreed", false},
		{"normal statement", "Public transit should run later at night", false},
		{"empty", "", true},
		{"whitespace only", "  \t\n ", true},
		{"exactly eighty words", strings.Repeat("word ", 80), false},
		{"eighty-one words", strings.Repeat("word ", 81), true},
		{"over character limit", strings.Repeat("a", 10001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CommentText(tt.txt)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVoteValue(t *testing.T) {
	for _, v := range []int{-1, 0, 1} {
		assert.NoError(t, VoteValue(v))
	}
	for _, v := range []int{-2, 2, 100} {
		assert.Error(t, VoteValue(v))
	}
}
