package search

import (
	"strconv"
	"strings"
)

const DefaultLimit = 20

// Query represents the structured parameters for a chat search.
// It decouples the raw input from what the index needs.
type Query struct {
	RawInput string
	Terms    string
	Author   string
	Limit    int
}

// NewSearchQuery parses a raw string with command-line style arguments.
// Example: "late delivery --author alice --limit 5"
func NewSearchQuery(input string) Query {
	query := Query{RawInput: input, Limit: DefaultLimit}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			key := strings.TrimPrefix(part, "--")
			val := parts[i+1]

			switch key {
			case "author":
				query.Author = val
			case "limit":
				if n, err := strconv.Atoi(val); err == nil && n > 0 {
					query.Limit = n
				}
			}
			i++
			continue
		}

		textTerms = append(textTerms, part)
	}

	query.Terms = strings.Join(textTerms, " ")
	return query
}
