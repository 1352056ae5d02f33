package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/actionkit/pkg/adapters/memory"
	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/aretw0/actionkit/pkg/persistence/middleware"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func encrypted(t *testing.T, cfg middleware.EncryptionConfig) middleware.Middleware {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	if err != nil {
		t.Fatalf("NewEncryptionMiddleware failed: %v", err)
	}
	return mw
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := encrypted(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	ctx := context.Background()

	// 1. Push, then inspect the underlying store directly
	if err := secureStore.Push(ctx, "s1", domain.Flash{Kind: "notice", Message: "my-secret-sauce"}); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	stored, err := underlyingStore.Drain(ctx, "s1")
	if err != nil {
		t.Fatalf("Underlying drain failed: %v", err)
	}
	if len(stored) != 1 || stored[0].Kind != "notice" {
		t.Fatalf("Unexpected stored flashes: %v", stored)
	}
	if strings.Contains(stored[0].Message, "my-secret-sauce") || !strings.HasPrefix(stored[0].Message, "enc:v1:") {
		t.Fatalf("Expected message to be encrypted, found: %q", stored[0].Message)
	}

	// 2. Drain via middleware (decrypted)
	if err := secureStore.Push(ctx, "s1", domain.Flash{Kind: "notice", Message: "my-secret-sauce"}); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	flashes, err := secureStore.Drain(ctx, "s1")
	if err != nil {
		t.Fatalf("Drain via middleware failed: %v", err)
	}
	if len(flashes) != 1 || flashes[0].Message != "my-secret-sauce" {
		t.Errorf("Expected 'my-secret-sauce', got %v", flashes)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	storeOld := encrypted(t, middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)
	storeNew := encrypted(t, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})(underlyingStore)

	// 1. Push with OLD key, drain with NEW key + OLD fallback
	if err := storeOld.Push(ctx, "s1", domain.Flash{Kind: "notice", Message: "old"}); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	flashes, err := storeNew.Drain(ctx, "s1")
	if err != nil {
		t.Fatalf("Drain with rotated key failed: %v", err)
	}
	if len(flashes) != 1 || flashes[0].Message != "old" {
		t.Errorf("Decryption with fallback key failed: %v", flashes)
	}

	// 2. A message under the NEW key cannot be read with only the OLD key
	if err := storeNew.Push(ctx, "s1", domain.Flash{Kind: "notice", Message: "new"}); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if _, err := storeOld.Drain(ctx, "s1"); err == nil {
		t.Error("Expected failure when draining new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_RejectsPlainMessages(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := encrypted(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	ctx := context.Background()

	if err := underlyingStore.Push(ctx, "s1", domain.Flash{Kind: "notice", Message: "plain"}); err != nil {
		t.Fatal(err)
	}
	if _, err := secureStore.Drain(ctx, "s1"); err == nil {
		t.Error("Expected plain message to be rejected")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	if _, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")}); err == nil {
		t.Error("Expected error for invalid key size")
	}
}
