package repositories

import (
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const blacklistPrefix = "blacklist:"

// IBlacklistRepository holds the censored words of the chat.
type IBlacklistRepository interface {
	Add(words ...string) error
	Words() ([]string, error)
}

type BlacklistRepository struct {
	db *badger.DB
}

func NewBlacklistRepository(db *badger.DB) IBlacklistRepository {
	return &BlacklistRepository{db: db}
}

// Add stores words lower-cased. The words live in the keys.
func (r *BlacklistRepository) Add(words ...string) error {
	wb := r.db.NewWriteBatch()
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if err := wb.Set([]byte(blacklistPrefix+w), nil); err != nil {
			wb.Cancel()
			return err
		}
	}
	return wb.Flush()
}

func (r *BlacklistRepository) Words() ([]string, error) {
	var words []string
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(blacklistPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			words = append(words, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return words, err
}
