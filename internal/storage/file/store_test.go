package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arrotondami/wealth-engine/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore() returned an unexpected error: %v", err)
	}
	return s
}

func record(id string, amount string) models.IncomeRecord {
	return models.IncomeRecord{
		ID:       id,
		Source:   "Babysitting",
		Amount:   decimal.RequireFromString(amount),
		Date:     "2024-01-01",
		Category: "Servizi",
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := []models.IncomeRecord{record("r1", "49.90"), record("r2", "30")}
	if err := s.SaveRecords(ctx, "user-a", want); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadRecords(ctx, "user-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("LoadRecords() returned %d records, want 2", len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Source != want[i].Source ||
			got[i].Date != want[i].Date || got[i].Category != want[i].Category ||
			!got[i].Amount.Equal(want[i].Amount) {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoadRecordsMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.LoadRecords(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("LoadRecords(missing) returned an unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("LoadRecords(missing) = %d records, want 0", len(got))
	}
}

func TestCorruptRecordsTreatedAsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveRecords(ctx, "user-a", []models.IncomeRecord{record("r1", "50")}); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(s.root, usersDir, "user-a", recordsFile)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadRecords(ctx, "user-a")
	if err != nil {
		t.Fatalf("LoadRecords(corrupt) returned an error: %v, want recovery to empty", err)
	}
	if len(got) != 0 {
		t.Errorf("LoadRecords(corrupt) = %d records, want 0", len(got))
	}
}

func TestUserIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveRecords(ctx, "user-a", []models.IncomeRecord{record("r1", "50")}); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadRecords(ctx, "user-b")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("LoadRecords(user-b) returned %d records from user-a's ledger", len(got))
	}
}

func TestGoalDefaultAndCorrupt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	goal, err := s.LoadGoal(ctx, "user-a")
	if err != nil {
		t.Fatal(err)
	}
	if !goal.Equal(models.DefaultGoal) {
		t.Errorf("LoadGoal(unset) = %s, want the default %s", goal, models.DefaultGoal)
	}

	want := decimal.RequireFromString("620.50")
	if err := s.SaveGoal(ctx, "user-a", want); err != nil {
		t.Fatal(err)
	}
	goal, _ = s.LoadGoal(ctx, "user-a")
	if !goal.Equal(want) {
		t.Errorf("LoadGoal() = %s, want %s", goal, want)
	}

	path := filepath.Join(s.root, usersDir, "user-a", goalFile)
	if err := os.WriteFile(path, []byte("banana"), 0o644); err != nil {
		t.Fatal(err)
	}
	goal, err = s.LoadGoal(ctx, "user-a")
	if err != nil {
		t.Fatalf("LoadGoal(corrupt) returned an error: %v, want recovery to default", err)
	}
	if !goal.Equal(models.DefaultGoal) {
		t.Errorf("LoadGoal(corrupt) = %s, want the default %s", goal, models.DefaultGoal)
	}

	// A negative value can never be written by SetGoal, so it reads as
	// corrupt too.
	if err := os.WriteFile(path, []byte("-5"), 0o644); err != nil {
		t.Fatal(err)
	}
	goal, err = s.LoadGoal(ctx, "user-a")
	if err != nil {
		t.Fatalf("LoadGoal(negative) returned an error: %v, want recovery to default", err)
	}
	if !goal.Equal(models.DefaultGoal) {
		t.Errorf("LoadGoal(negative) = %s, want the default %s", goal, models.DefaultGoal)
	}
}

func TestActiveUserLifecycle(t *testing.T) {
	s := newTestStore(t)

	user, err := s.ActiveUser()
	if err != nil || user != nil {
		t.Fatalf("ActiveUser() = %v, %v, want nil, nil before any login", user, err)
	}

	if err := s.SetActiveUser(models.User{ID: "user-a", Name: "Giulia", AvatarColor: "bg-rose-500"}); err != nil {
		t.Fatal(err)
	}
	user, err = s.ActiveUser()
	if err != nil {
		t.Fatal(err)
	}
	if user == nil || user.ID != "user-a" || user.AvatarColor != "bg-rose-500" {
		t.Fatalf("ActiveUser() = %+v, want the stored snapshot", user)
	}

	if err := s.ClearActiveUser(); err != nil {
		t.Fatal(err)
	}
	if user, _ = s.ActiveUser(); user != nil {
		t.Errorf("ActiveUser() = %+v after clear, want nil", user)
	}
	// Clearing again is a no-op.
	if err := s.ClearActiveUser(); err != nil {
		t.Errorf("ClearActiveUser() on empty store returned %v", err)
	}
}

func TestCorruptActiveUserTreatedAsLoggedOut(t *testing.T) {
	s := newTestStore(t)

	if err := os.WriteFile(filepath.Join(s.root, activeUserFile), []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}

	user, err := s.ActiveUser()
	if err != nil {
		t.Fatalf("ActiveUser(corrupt) returned an error: %v, want recovery to nil", err)
	}
	if user != nil {
		t.Errorf("ActiveUser(corrupt) = %+v, want nil", user)
	}
}

func TestRejectsUnsafeUserID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"", "..", "a/b", `a\b`} {
		if err := s.SaveRecords(ctx, id, nil); err == nil {
			t.Errorf("SaveRecords(%q) succeeded, want an error", id)
		}
	}
}
