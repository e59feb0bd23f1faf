package storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewObjectKey(t *testing.T) {
	key := NewObjectKey("photos", "face.JPG")
	if !strings.HasPrefix(key, "photos/") {
		t.Fatalf("key %q missing prefix", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("key %q should keep a lowercased extension", key)
	}

	other := NewObjectKey("photos", "face.JPG")
	if key == other {
		t.Fatalf("object keys collide: %q", key)
	}

	bare := NewObjectKey("documents", "notes")
	if strings.Contains(strings.TrimPrefix(bare, "documents/"), ".") {
		t.Fatalf("extensionless filename produced extension: %q", bare)
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	payload := "fake image bytes"
	if errPut := store.Put(ctx, "photos/a.jpg", strings.NewReader(payload), int64(len(payload)), "image/jpeg"); errPut != nil {
		t.Fatalf("put: %v", errPut)
	}

	data, ok := store.Get("photos/a.jpg")
	if !ok {
		t.Fatalf("object missing after put")
	}
	if string(data) != payload {
		t.Fatalf("stored bytes = %q, want %q", data, payload)
	}

	url, errPresign := store.PresignGet(ctx, "photos/a.jpg", time.Minute)
	if errPresign != nil {
		t.Fatalf("presign: %v", errPresign)
	}
	if !strings.Contains(url, "photos/a.jpg") {
		t.Fatalf("presigned url %q does not reference key", url)
	}

	if _, errMissing := store.PresignGet(ctx, "photos/missing.jpg", time.Minute); errMissing == nil {
		t.Fatalf("presign of missing object should fail")
	}
}
