package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"
)

//go:embed censored/*.txt
var defaultDictionaries embed.FS

// Dictionaries is the merged content of every language file of a folder.
type Dictionaries struct {
	Words     []string
	Languages []string
}

// DefaultDictionaries returns the word lists shipped with the binary.
func DefaultDictionaries() (Dictionaries, error) {
	return LoadDictionaries(defaultDictionaries, "censored")
}

// LoadDictionaries reads every .txt file of dir as one language ("fr.txt" -> "fr"),
// one word per line. Words are deduplicated and sorted.
func LoadDictionaries(fsys fs.FS, dir string) (Dictionaries, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return Dictionaries{}, err
	}

	var languages []string
	unique := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".txt" {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return Dictionaries{}, err
		}
		// Scanner copes with \r\n files
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				unique[strings.ToLower(line)] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return Dictionaries{}, err
		}
	}

	if len(unique) == 0 {
		return Dictionaries{}, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(unique))
	for w := range unique {
		words = append(words, w)
	}
	slices.Sort(words)
	return Dictionaries{Words: words, Languages: languages}, nil
}
