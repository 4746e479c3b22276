package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arrotondami/wealth-engine/internal/ledger"
	"github.com/arrotondami/wealth-engine/internal/models"
	"github.com/arrotondami/wealth-engine/internal/storage/memory"
)

func newTestController(store *memory.Store) (*Controller, *ledger.Engine) {
	engine := ledger.NewEngine(store, nil, zap.NewNop())
	return NewController(store, engine, nil, zap.NewNop()), engine
}

func testUser(id, name string) models.User {
	return models.User{
		ID:          id,
		Name:        name,
		AvatarColor: "bg-blue-500",
		CreatedAt:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testInput(source string, amount int64) ledger.IncomeInput {
	return ledger.IncomeInput{
		Source:   source,
		Amount:   decimal.NewFromInt(amount),
		Date:     "2024-01-01",
		Category: "Servizi",
	}
}

func TestResumeWithoutStoredUser(t *testing.T) {
	c, _ := newTestController(memory.NewStore())

	user, err := c.Resume(context.Background())
	if err != nil {
		t.Fatalf("Resume() returned an unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("Resume() = %+v, want nil when no user is stored", user)
	}
	if c.LoggedIn() {
		t.Error("LoggedIn() = true after an empty resume")
	}
}

func TestLoginPersistsPointerAndLoadsLedger(t *testing.T) {
	store := memory.NewStore()
	c, engine := newTestController(store)
	ctx := context.Background()

	if err := c.Login(ctx, testUser("user-a", "Giulia")); err != nil {
		t.Fatalf("Login() returned an unexpected error: %v", err)
	}
	if _, err := engine.AddIncome(ctx, testInput("Babysitting", 50)); err != nil {
		t.Fatal(err)
	}

	stored, err := store.ActiveUser()
	if err != nil || stored == nil {
		t.Fatalf("ActiveUser() = %v, %v, want the logged-in user", stored, err)
	}
	if stored.ID != "user-a" {
		t.Errorf("stored active user id = %q, want %q", stored.ID, "user-a")
	}

	// A fresh controller over the same store resumes the full session.
	c2, engine2 := newTestController(store)
	user, err := c2.Resume(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if user == nil || user.ID != "user-a" {
		t.Fatalf("Resume() = %+v, want user-a", user)
	}
	if got := engine2.Records(); len(got) != 1 {
		t.Errorf("resumed engine has %d records, want 1", len(got))
	}
}

func TestLoginRequiresUserID(t *testing.T) {
	c, _ := newTestController(memory.NewStore())

	err := c.Login(context.Background(), models.User{Name: "Nameless"})
	if !ledger.IsValidation(err) {
		t.Errorf("Login() error = %v, want a ValidationError", err)
	}
}

func TestLogoutClearsSessionKeepsLedger(t *testing.T) {
	store := memory.NewStore()
	c, engine := newTestController(store)
	ctx := context.Background()

	if err := c.Login(ctx, testUser("user-a", "Giulia")); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.AddIncome(ctx, testInput("Babysitting", 50)); err != nil {
		t.Fatal(err)
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout() returned an unexpected error: %v", err)
	}
	if c.ActiveUser() != nil {
		t.Error("ActiveUser() != nil after logout")
	}
	if stored, _ := store.ActiveUser(); stored != nil {
		t.Error("active pointer still stored after logout")
	}

	// In-memory state is gone: mutations need a new login.
	if _, err := engine.AddIncome(ctx, testInput("Babysitting", 10)); !errors.Is(err, ledger.ErrNoActiveSession) {
		t.Errorf("AddIncome() after logout error = %v, want ErrNoActiveSession", err)
	}

	// Durable data survives and comes back on the next login.
	records, err := store.LoadRecords(ctx, "user-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("stored records after logout = %d, want 1", len(records))
	}
	if err := c.Login(ctx, testUser("user-a", "Giulia")); err != nil {
		t.Fatal(err)
	}
	if got := engine.Records(); len(got) != 1 {
		t.Errorf("records after re-login = %d, want 1", len(got))
	}
}

func TestLogoutWhenLoggedOut(t *testing.T) {
	c, _ := newTestController(memory.NewStore())

	if err := c.Logout(context.Background()); !errors.Is(err, ledger.ErrNoActiveSession) {
		t.Errorf("Logout() error = %v, want ErrNoActiveSession", err)
	}
}

func TestSwitchingUserDiscardsPreviousState(t *testing.T) {
	store := memory.NewStore()
	c, engine := newTestController(store)
	ctx := context.Background()

	if err := c.Login(ctx, testUser("user-a", "Giulia")); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.AddIncome(ctx, testInput("Babysitting", 50)); err != nil {
		t.Fatal(err)
	}

	if err := c.Login(ctx, testUser("user-b", "Marco")); err != nil {
		t.Fatal(err)
	}
	if got := c.ActiveUser(); got == nil || got.ID != "user-b" {
		t.Fatalf("ActiveUser() after switch = %+v, want user-b", got)
	}
	if got := engine.Records(); len(got) != 0 {
		t.Errorf("engine has %d records after switching users, want 0", len(got))
	}

	// Nothing of user-a leaked or was lost.
	records, _ := store.LoadRecords(ctx, "user-a")
	if len(records) != 1 {
		t.Errorf("stored records for user-a = %d, want 1", len(records))
	}
	records, _ = store.LoadRecords(ctx, "user-b")
	if len(records) != 0 {
		t.Errorf("stored records for user-b = %d, want 0", len(records))
	}
}
