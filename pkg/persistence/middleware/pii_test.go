package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/flowline/pkg/adapters/memory"
	"github.com/aretw0/flowline/pkg/domain"
	"github.com/aretw0/flowline/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := middleware.NewPIIMiddleware([]string{"password", "ssn"})(underlyingStore)

	ctx := context.Background()
	run := newRun("pii-run", map[string]any{
		"username":      "jdoe",
		"user_password": "secret123",
		"details": map[string]any{
			"address":    "123 St",
			"ssn_number": "999-99-9999",
		},
		"accounts":  []any{map[string]any{"password": "p1"}},
		"safe_data": "public",
	})

	if err := secureStore.Save(ctx, run); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The caller's state is untouched.
	if run.State.Data["user_password"] != "secret123" {
		t.Error("Middleware modified original state in memory!")
	}
	if run.State.Data["details"].(map[string]any)["ssn_number"] != "999-99-9999" {
		t.Error("Middleware modified nested original state in memory!")
	}

	stored, err := underlyingStore.Load(ctx, "pii-run")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}

	if stored.State.Data["username"] != "jdoe" {
		t.Error("Username shouldn't be masked")
	}
	if stored.State.Data["user_password"] != middleware.Mask {
		t.Errorf("Password should be masked, got: %v", stored.State.Data["user_password"])
	}
	details := stored.State.Data["details"].(map[string]any)
	if details["ssn_number"] != middleware.Mask {
		t.Errorf("Nested SSN should be masked, got: %v", details["ssn_number"])
	}
	account := stored.State.Data["accounts"].([]any)[0].(map[string]any)
	if account["password"] != middleware.Mask {
		t.Errorf("Password inside a list should be masked, got: %v", account["password"])
	}
}

type credentials struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

func TestPIIMiddleware_MasksTypedValues(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := middleware.NewPIIMiddleware([]string{"password"})(underlyingStore)

	ctx := context.Background()
	users := []map[string]any{{"name": "ada", "password": "hunter2"}}
	run := newRun("typed-run", map[string]any{
		"profile": domain.Update{"password": "s3cret", "email": "a@b.c"},
		"users":   users,
		"labels":  map[string]string{"password": "plain", "team": "core"},
		"login":   &credentials{User: "ada", Password: "pw"},
		"blob":    []byte("raw"),
	})

	if err := secureStore.Save(ctx, run); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if users[0]["password"] != "hunter2" {
		t.Error("Middleware modified the caller's slice of maps")
	}

	stored, err := underlyingStore.Load(ctx, "typed-run")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}

	profile := stored.State.Data["profile"].(map[string]any)
	if profile["password"] != middleware.Mask || profile["email"] != "a@b.c" {
		t.Errorf("Expected password masked inside domain.Update, got %v", profile)
	}
	user := stored.State.Data["users"].([]any)[0].(map[string]any)
	if user["password"] != middleware.Mask || user["name"] != "ada" {
		t.Errorf("Expected password masked inside []map[string]any, got %v", user)
	}
	labels := stored.State.Data["labels"].(map[string]any)
	if labels["password"] != middleware.Mask || labels["team"] != "core" {
		t.Errorf("Expected password masked inside map[string]string, got %v", labels)
	}
	login := stored.State.Data["login"].(map[string]any)
	if login["password"] != middleware.Mask || login["user"] != "ada" {
		t.Errorf("Expected password masked inside a struct, got %v", login)
	}
	if string(stored.State.Data["blob"].([]byte)) != "raw" {
		t.Errorf("Expected byte slices to be kept, got %v", stored.State.Data["blob"])
	}
}

func TestChain_MaskThenEncrypt(t *testing.T) {
	underlyingStore := memory.NewStore()
	key := generateKey(t)
	store := middleware.Chain(underlyingStore,
		middleware.NewPIIMiddleware([]string{"token"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}),
	)

	ctx := context.Background()
	if err := store.Save(ctx, newRun("chained", map[string]any{"token": "abc", "n": 1})); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "chained")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.State.Data["token"] != middleware.Mask {
		t.Errorf("Expected token to be masked before encryption, got %v", loaded.State.Data["token"])
	}
	if _, ok := loaded.State.Data["n"]; !ok {
		t.Error("Expected unmasked keys to survive")
	}
}
