package checkout

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
)

type fakeStoreClient struct {
	values map[string]string
}

func newFakeStoreClient() *fakeStoreClient {
	return &fakeStoreClient{values: map[string]string{}}
}

func (f *fakeStoreClient) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = stringify(value)
	return nil
}

func (f *fakeStoreClient) Get(_ context.Context, key string) (string, error) {
	raw, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return raw, nil
}

func (f *fakeStoreClient) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeStoreClient) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = stringify(value)
	return true, nil
}

func (f *fakeStoreClient) DraftKey(draftID string) string {
	return "fc:checkout_draft:" + draftID
}

func (f *fakeStoreClient) SubmitGuardKey(draftID string) string {
	return "fc:submit_guard:" + draftID
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func TestDraftStoreSaveAndGet(t *testing.T) {
	client := newFakeStoreClient()
	store := NewDraftStore(client, time.Hour)

	draft := &Draft{ID: "d-1", PlanID: "gold", Step: StepDetails, Status: DraftStatusOpen}
	if err := store.Save(context.Background(), draft); err != nil {
		t.Fatalf("save: %v", err)
	}
	if draft.UpdatedAt.IsZero() {
		t.Fatalf("save should stamp UpdatedAt")
	}

	loaded, err := store.Get(context.Background(), "d-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.PlanID != "gold" || loaded.Status != DraftStatusOpen {
		t.Fatalf("loaded draft mismatch: %+v", loaded)
	}
}

func TestDraftStoreGetMissing(t *testing.T) {
	store := NewDraftStore(newFakeStoreClient(), time.Hour)
	_, err := store.Get(context.Background(), "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDraftStoreDeleteRemovesGuard(t *testing.T) {
	client := newFakeStoreClient()
	store := NewDraftStore(client, time.Hour)

	draft := &Draft{ID: "d-2"}
	if err := store.Save(context.Background(), draft); err != nil {
		t.Fatalf("save: %v", err)
	}
	acquired, err := store.AcquireSubmitGuard(context.Background(), "d-2", time.Minute)
	if err != nil || !acquired {
		t.Fatalf("acquire guard: %v acquired=%v", err, acquired)
	}

	if err := store.Delete(context.Background(), "d-2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(client.values) != 0 {
		t.Fatalf("delete should remove draft and guard, left %v", client.values)
	}
}

func TestDraftStoreSubmitGuardIsOnceOnly(t *testing.T) {
	store := NewDraftStore(newFakeStoreClient(), time.Hour)

	acquired, err := store.AcquireSubmitGuard(context.Background(), "d-3", time.Minute)
	if err != nil || !acquired {
		t.Fatalf("first acquire: %v acquired=%v", err, acquired)
	}
	acquired, err = store.AcquireSubmitGuard(context.Background(), "d-3", time.Minute)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if acquired {
		t.Fatalf("second acquire should fail while guard is held")
	}

	if err := store.ReleaseSubmitGuard(context.Background(), "d-3"); err != nil {
		t.Fatalf("release: %v", err)
	}
	acquired, err = store.AcquireSubmitGuard(context.Background(), "d-3", time.Minute)
	if err != nil || !acquired {
		t.Fatalf("acquire after release: %v acquired=%v", err, acquired)
	}
}
