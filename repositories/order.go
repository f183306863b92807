//go:generate go run go.uber.org/mock/mockgen -source=order.go -destination=../mocks/mock_order_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"sort"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

const (
	orderPrefix     = "order:"
	signaturePrefix = "sig:"

	// maxConflictRetries bounds how many times an order transaction is
	// replayed after another writer committed the same order first.
	maxConflictRetries = 10
)

type IOrderRepository interface {
	Save(order domain.Order) error
	Get(id string) (domain.Order, error)
	List() ([]domain.Order, error)
	Update(id string, fn func(order *domain.Order) error) (domain.Order, error)
	AttachSignature(signature domain.Signature) (domain.Order, error)
	GetSignature(orderID string) (domain.Signature, error)
}

// OrderRepository stores orders as JSON documents, the same shape the
// REST API returns, keyed by "order:{id}".
type OrderRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewOrderRepository(db *badger.DB, log *slog.Logger) IOrderRepository {
	return &OrderRepository{db: db, log: log}
}

func (r *OrderRepository) Save(order domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(orderPrefix+order.ID), data)
	})
}

func (r *OrderRepository) Get(id string) (domain.Order, error) {
	var order domain.Order
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(orderPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &order)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Order{}, errors.ErrOrderNotFound
	}
	return order, err
}

// List returns every order, ordered by reference.
func (r *OrderRepository) List() ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(orderPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var order domain.Order
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &order)
			})
			if err != nil {
				r.log.Warn("Skipping unreadable order", "key", string(it.Item().Key()), "error", err)
				continue
			}
			orders = append(orders, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].Reference < orders[j].Reference })
	return orders, nil
}

// Update reads the order, applies fn and writes the result in a single
// transaction. An error from fn aborts the update and is returned as is.
func (r *OrderRepository) Update(id string, fn func(order *domain.Order) error) (domain.Order, error) {
	return r.update(id, func(_ *badger.Txn, order *domain.Order) error {
		return fn(order)
	})
}

// AttachSignature stores the signature and stamps the order as signed in the
// same transaction.
func (r *OrderRepository) AttachSignature(signature domain.Signature) (domain.Order, error) {
	data, err := json.Marshal(signature)
	if err != nil {
		return domain.Order{}, err
	}
	return r.update(signature.OrderID, func(txn *badger.Txn, order *domain.Order) error {
		order.SignedAt = lo.ToPtr(signature.CapturedAt)
		order.UpdatedAt = signature.CapturedAt
		return txn.Set([]byte(signaturePrefix+signature.OrderID), data)
	})
}

func (r *OrderRepository) update(id string, fn func(txn *badger.Txn, order *domain.Order) error) (domain.Order, error) {
	key := []byte(orderPrefix + id)
	var order domain.Order
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = r.db.Update(func(txn *badger.Txn) error {
			order = domain.Order{}
			item, err := txn.Get(key)
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &order)
			}); err != nil {
				return err
			}
			if err := fn(txn, &order); err != nil {
				return err
			}
			data, err := json.Marshal(order)
			if err != nil {
				return err
			}
			return txn.Set(key, data)
		})
		if !stderrors.Is(err, badger.ErrConflict) {
			break
		}
		r.log.Debug("Order changed concurrently, retrying", "order_id", id, "attempt", attempt)
	}
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Order{}, errors.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *OrderRepository) GetSignature(orderID string) (domain.Signature, error) {
	var signature domain.Signature
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(signaturePrefix + orderID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &signature)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Signature{}, errors.ErrSignatureNotFound
	}
	return signature, err
}
