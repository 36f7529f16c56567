package cron

import (
	"context"
	"testing"
	"time"
)

func TestRedisLockAcquireAndRelease(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "ac:lock:test:1", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	ok, err := lock.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected lock acquired, ok=%v err=%v", ok, err)
	}

	other, _ := NewRedisLock(store, "ac:lock:test:1", time.Minute)
	ok, err = other.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if ok {
		t.Fatal("second acquire should fail while lock is held")
	}

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if len(store.values) != 0 {
		t.Fatal("lock key not removed on release")
	}
}

func TestRedisLockReleaseSkipsForeignOwner(t *testing.T) {
	store := newFakeRedisStore()
	lock, _ := NewRedisLock(store, "ac:lock:test:2", time.Minute)
	if ok, _ := lock.Acquire(context.Background()); !ok {
		t.Fatal("expected acquire to succeed")
	}

	// Simulate TTL expiry followed by another instance taking the lock.
	store.values["ac:lock:test:2"] = "someone-else"

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if store.values["ac:lock:test:2"] != "someone-else" {
		t.Fatal("release must not delete a lock owned by another instance")
	}
}

func TestRedisLockValidation(t *testing.T) {
	if _, err := NewRedisLock(nil, "key", time.Minute); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewRedisLock(newFakeRedisStore(), "", time.Minute); err == nil {
		t.Fatal("expected error for empty key")
	}
}
