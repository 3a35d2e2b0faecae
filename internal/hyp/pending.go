package hyp

import (
	"context"
	"encoding/json"
	"time"

	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
	redispkg "github.com/fitcore-app/fitcore-backend/pkg/redis"
)

// PendingTransaction carries the state needed to resume a checkout after the
// gateway redirect. It is keyed by the token embedded in the return URLs.
type PendingTransaction struct {
	DraftID       string    `json:"draftId"`
	TransactionID string    `json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
}

type pendingStoreClient interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
	PendingTransactionKey(token string) string
}

// PendingStore persists pending gateway transactions in redis.
type PendingStore struct {
	store pendingStoreClient
	ttl   time.Duration
}

// NewPendingStore builds a pending-transaction store.
func NewPendingStore(store pendingStoreClient, ttl time.Duration) *PendingStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PendingStore{store: store, ttl: ttl}
}

// Save records the pending transaction under the redirect token.
func (p *PendingStore) Save(ctx context.Context, token string, tx PendingTransaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	return p.store.Set(ctx, p.store.PendingTransactionKey(token), raw, p.ttl)
}

// Consume atomically reads and deletes the pending transaction. The delete
// happens whether or not the caller's verification later succeeds, so a
// repeated arrival with the same token cannot replay the flow.
func (p *PendingStore) Consume(ctx context.Context, token string) (*PendingTransaction, error) {
	raw, err := p.store.GetDel(ctx, p.store.PendingTransactionKey(token))
	if err != nil {
		if redispkg.IsNil(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment details not found")
		}
		return nil, err
	}
	var tx PendingTransaction
	if err := json.Unmarshal([]byte(raw), &tx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding pending transaction")
	}
	return &tx, nil
}
