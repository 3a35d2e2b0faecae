package checkout

import (
	"context"
	"encoding/json"
	"time"

	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
	redispkg "github.com/fitcore-app/fitcore-backend/pkg/redis"
)

type draftStoreClient interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	DraftKey(draftID string) string
	SubmitGuardKey(draftID string) string
}

// DraftStore holds open drafts in redis for the lifetime of a checkout
// session.
type DraftStore struct {
	store draftStoreClient
	ttl   time.Duration
}

// NewDraftStore builds the redis-backed draft store.
func NewDraftStore(store draftStoreClient, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &DraftStore{store: store, ttl: ttl}
}

// Save writes the draft, refreshing its TTL.
func (s *DraftStore) Save(ctx context.Context, draft *Draft) error {
	draft.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, s.store.DraftKey(draft.ID), raw, s.ttl)
}

// Get loads a draft by id.
func (s *DraftStore) Get(ctx context.Context, draftID string) (*Draft, error) {
	raw, err := s.store.Get(ctx, s.store.DraftKey(draftID))
	if err != nil {
		if redispkg.IsNil(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return nil, err
	}
	var draft Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding draft")
	}
	return &draft, nil
}

// Delete discards the draft and its submit guard.
func (s *DraftStore) Delete(ctx context.Context, draftID string) error {
	return s.store.Del(ctx, s.store.DraftKey(draftID), s.store.SubmitGuardKey(draftID))
}

// AcquireSubmitGuard takes the once-only submission lock for the draft.
func (s *DraftStore) AcquireSubmitGuard(ctx context.Context, draftID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return s.store.SetNX(ctx, s.store.SubmitGuardKey(draftID), "1", ttl)
}

// ReleaseSubmitGuard frees the submission lock after a failed attempt so the
// operator can retry.
func (s *DraftStore) ReleaseSubmitGuard(ctx context.Context, draftID string) error {
	return s.store.Del(ctx, s.store.SubmitGuardKey(draftID))
}
