package moderation

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// Dictionary words are long enough not to collide across word boundaries once spaces are dropped.
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	mod, err := NewModerator([]string{"bastard", "bullshit", "connard"}, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Single word keeps the rest of the sentence",
			input:    "Customer is a bastard, gate 4",
			expected: "Customer is a *******, gate 4",
			words:    []string{"bastard"},
		},
		{
			name:     "Repeated word",
			input:    "bullshit bullshit",
			expected: "******** ********",
			words:    []string{"bullshit", "bullshit"},
		},
		{
			name:     "Leet digits and dots inside the word",
			input:    "That b.4.s.t.4.r.d left",
			expected: "That ************* left",
			words:    []string{"bastard"},
		},
		{
			name:     "Uppercase with dashes",
			input:    "C-O-N-N-A-R-D at the door",
			expected: "************* at the door",
			words:    []string{"connard"},
		},
		{
			name:     "Accented text around the word",
			input:    "Livraison à l'étage, bastard",
			expected: "Livraison à l'étage, *******",
			words:    []string{"bastard"},
		},
		{
			name:     "Trailing punctuation is kept",
			input:    "What bullshit!",
			expected: "What ********!",
			words:    []string{"bullshit"},
		},
		{
			name:     "Nothing to censor",
			input:    "Order ORD-1001 delivered",
			expected: "Order ORD-1001 delivered",
		},
		{
			name: "Empty string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, words := mod.Censor(tt.input)
			require.Equal(t, tt.expected, content)
			require.Equal(t, tt.words, words)
		})
	}
}

func TestModerator_NoiseOnlyWords(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a dictionary polluted with punctuation-only entries
	mod, err := NewModerator([]string{"...", ",,,", "", "bastard"}, replacementChar, log)
	req.NoError(err)

	// Then real words are still censored
	content, words := mod.Censor("The bastard is late")
	req.Equal("The ******* is late", content)
	req.Equal([]string{"bastard"}, words)

	// Then punctuation in messages is left alone
	content, words = mod.Censor("On my way...")
	req.Equal("On my way...", content)
	req.Nil(words)
}

func TestModerator_EmptyDictionary(t *testing.T) {
	req := require.New(t)

	// Given no censored words at all
	mod, err := NewModerator(nil, replacementChar, slog.New(slog.DiscardHandler))
	req.NoError(err)

	// When a message is censored
	content, words := mod.Censor("bastard")

	// Then it passes through untouched
	req.Equal("bastard", content)
	req.Nil(words)
}
