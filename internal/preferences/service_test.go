package preferences

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestGetDefaultsForNewUser(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemoryRepo(), nil)
	prefs, found, err := svc.Get(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Fatalf("expected not found")
	}
	if got := ViewOf(prefs); got != (View{}) {
		t.Fatalf("expected all attributes unset, got %+v", got)
	}
}

func TestUpsertRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(NewMemoryRepo(), nil)

	written, err := svc.Upsert(ctx, "u1", Update{Theme: SetTo("dark"), DisplayName: SetTo("Ada")})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	read, found, err := svc.Get(ctx, "u1")
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if !reflect.DeepEqual(written, read) {
		t.Fatalf("read %+v differs from written %+v", read, written)
	}
	if read.UserID != "u1" {
		t.Fatalf("expected owner u1, got %q", read.UserID)
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(NewMemoryRepo(), nil)
	upd := Update{Theme: SetTo("dark"), DisplayPicture: SetTo("users/u1/images/a.png")}

	first, err := svc.Upsert(ctx, "u1", upd)
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	second, err := svc.Upsert(ctx, "u1", upd)
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical records, got %+v and %+v", first, second)
	}
}

func TestUpsertMergesAndClears(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(NewMemoryRepo(), nil)

	if _, err := svc.Upsert(ctx, "u1", Update{Theme: SetTo("light"), DisplayName: SetTo("Ada")}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err := svc.Upsert(ctx, "u1", Update{Theme: SetTo("dark"), DisplayName: Null[string]()})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	want := View{Theme: strPtr("dark")}
	if !reflect.DeepEqual(ViewOf(got), want) {
		t.Fatalf("got %+v, want %+v", ViewOf(got), want)
	}
}

func TestUpsertEmptyUpdateCreatesRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)

	if _, err := svc.Upsert(ctx, "u1", Update{}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := repo.Get(ctx, "u1"); err != nil {
		t.Fatalf("expected record created, got %v", err)
	}
}

func TestUpsertRejectsInvalidBeforeStorage(t *testing.T) {
	t.Parallel()

	repo := &failingRepo{}
	svc := NewService(repo, nil)
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}

	_, err := svc.Upsert(context.Background(), "u1", Update{DisplayName: SetTo(string(long))})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("store must not be touched, got %d calls", repo.calls)
	}
}

func TestUpsertWrapsStorageErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("throughput exceeded")
	svc := NewService(&failingRepo{err: boom}, nil)

	_, err := svc.Upsert(context.Background(), "u1", Update{Theme: SetTo("dark")})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}

type failingRepo struct {
	err   error
	calls int
}

func (r *failingRepo) Get(context.Context, string) (Preferences, error) {
	r.calls++
	return Preferences{}, r.err
}

func (r *failingRepo) Put(context.Context, Preferences) error {
	r.calls++
	return r.err
}
