package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/actionkit/pkg/adapters/memory"
	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/aretw0/actionkit/pkg/persistence/middleware"
	"github.com/aretw0/actionkit/pkg/ports"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlyingStore := memory.NewStore()
	mw, err := middleware.NewPIIMiddleware([]string{`[\w.+-]+@[\w-]+\.[\w.]+`, `\d{3}-\d{2}-\d{4}`})
	if err != nil {
		t.Fatal(err)
	}
	secureStore := mw(underlyingStore)
	ctx := context.Background()

	if err := secureStore.Push(ctx, "s1", domain.Flash{Kind: "notice", Message: "Invite sent to ann@example.com (ssn 999-99-9999)"}); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	flashes, err := underlyingStore.Drain(ctx, "s1")
	if err != nil {
		t.Fatalf("Underlying drain failed: %v", err)
	}
	if got := flashes[0].Message; got != "Invite sent to *** (ssn ***)" {
		t.Errorf("Expected masked message, got: %q", got)
	}
}

func TestPIIMiddleware_InvalidPattern(t *testing.T) {
	if _, err := middleware.NewPIIMiddleware([]string{"("}); err == nil {
		t.Error("Expected error for invalid pattern")
	}
}

func TestChain_OrderAndContract(t *testing.T) {
	pii, err := middleware.NewPIIMiddleware([]string{"secret"})
	if err != nil {
		t.Fatal(err)
	}
	key := generateKey(t)

	underlyingStore := memory.NewStore()
	store := middleware.Chain(underlyingStore, pii, encrypted(t, middleware.EncryptionConfig{ActiveKey: key}))
	ctx := context.Background()

	if err := store.Push(ctx, "s1", domain.Flash{Kind: "alert", Message: "the secret"}); err != nil {
		t.Fatal(err)
	}
	flashes, err := store.Drain(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if flashes[0].Message != "the ***" {
		t.Errorf("Expected masking before encryption, got %q", flashes[0].Message)
	}

	ports.RunFlashStoreContract(t, middleware.Chain(memory.NewStore(), pii, encrypted(t, middleware.EncryptionConfig{ActiveKey: key})))
}
