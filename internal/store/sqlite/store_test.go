package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quizboard/internal/account"
	"quizboard/internal/notify"
	"quizboard/internal/quiz"
	"quizboard/internal/streak"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	store, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
		_ = os.Remove(path)
		_ = os.Remove(path + "-wal")
		_ = os.Remove(path + "-shm")
		_ = os.Remove(path + "-journal")
	})
	return store
}

func sampleResult(id string, day int) quiz.Result {
	return quiz.Result{
		ID:             id,
		QuizType:       "html",
		QuizTitle:      "HTML",
		Score:          3,
		TotalQuestions: 4,
		Percentage:     75,
		Date:           time.Date(2024, time.May, day, 10, 30, 0, 123, time.UTC),
		TimeTaken:      "1:05",
	}
}

func TestStoreResultsKeepInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Appended out of date order on purpose.
	for _, result := range []quiz.Result{sampleResult("r3", 3), sampleResult("r1", 1), sampleResult("r2", 2)} {
		if err := store.AppendResult(ctx, "alice", result); err != nil {
			t.Fatalf("AppendResult failed: %v", err)
		}
	}
	if err := store.AppendResult(ctx, "bob", sampleResult("b1", 1)); err != nil {
		t.Fatalf("AppendResult failed: %v", err)
	}

	results, err := store.ReadResults(ctx, "alice")
	if err != nil {
		t.Fatalf("ReadResults failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].ID != "r3" || results[1].ID != "r1" || results[2].ID != "r2" {
		t.Fatalf("insertion order not preserved: %+v", results)
	}
	want := sampleResult("r3", 3)
	got := results[0]
	if !got.Date.Equal(want.Date) {
		t.Fatalf("date = %v, want %v", got.Date, want.Date)
	}
	got.Date = want.Date
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}

	if err := store.ClearResults(ctx, "alice"); err != nil {
		t.Fatalf("ClearResults failed: %v", err)
	}
	results, err = store.ReadResults(ctx, "alice")
	if err != nil {
		t.Fatalf("ReadResults after clear failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty log after clear, got %+v", results)
	}

	other, err := store.ReadResults(ctx, "bob")
	if err != nil || len(other) != 1 {
		t.Fatalf("clear must not touch other users: %+v, %v", other, err)
	}
}

func TestStoreCheckpointOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.ReadCheckpoint(ctx, "alice"); !errors.Is(err, quiz.ErrCheckpointNotFound) {
		t.Fatalf("expected ErrCheckpointNotFound, got %v", err)
	}

	first := streak.Checkpoint{Streak: 3, LastCheckDate: streak.Day{Year: 2024, Month: time.May, Day: 3}}
	if err := store.WriteCheckpoint(ctx, "alice", first); err != nil {
		t.Fatalf("WriteCheckpoint failed: %v", err)
	}
	second := streak.Checkpoint{Streak: 0, LastCheckDate: streak.Day{Year: 2024, Month: time.May, Day: 5}}
	if err := store.WriteCheckpoint(ctx, "alice", second); err != nil {
		t.Fatalf("WriteCheckpoint overwrite failed: %v", err)
	}

	got, err := store.ReadCheckpoint(ctx, "alice")
	if err != nil {
		t.Fatalf("ReadCheckpoint failed: %v", err)
	}
	if got != second {
		t.Fatalf("checkpoint = %+v, want %+v", got, second)
	}
}

func TestStoreZeroCheckpointRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.WriteCheckpoint(ctx, "alice", streak.Checkpoint{}); err != nil {
		t.Fatalf("WriteCheckpoint failed: %v", err)
	}
	got, err := store.ReadCheckpoint(ctx, "alice")
	if err != nil {
		t.Fatalf("ReadCheckpoint failed: %v", err)
	}
	if got != (streak.Checkpoint{}) {
		t.Fatalf("checkpoint = %+v, want zero", got)
	}
}

func TestStoreNotifications(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, time.May, 3, 9, 0, 0, 0, time.UTC)
	for idx, id := range []string{"n1", "n2"} {
		err := store.AddNotification(ctx, "alice", notify.Notification{
			ID:      id,
			Message: "message " + id,
			Time:    base.Add(time.Duration(idx) * time.Minute),
			Type:    notify.KindScore,
		})
		if err != nil {
			t.Fatalf("AddNotification failed: %v", err)
		}
	}

	list, err := store.ListNotifications(ctx, "alice")
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != "n2" || list[1].ID != "n1" {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if list[0].Type != notify.KindScore || list[0].Read || !list[0].Time.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected notification fields: %+v", list[0])
	}

	if err := store.MarkNotificationRead(ctx, "alice", "n1"); err != nil {
		t.Fatalf("MarkNotificationRead failed: %v", err)
	}
	if err := store.MarkNotificationRead(ctx, "alice", "missing"); !errors.Is(err, notify.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if err := store.MarkNotificationRead(ctx, "bob", "n1"); !errors.Is(err, notify.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound for other user, got %v", err)
	}

	if err := store.MarkAllNotificationsRead(ctx, "alice"); err != nil {
		t.Fatalf("MarkAllNotificationsRead failed: %v", err)
	}
	list, _ = store.ListNotifications(ctx, "alice")
	if notify.CountUnread(list) != 0 {
		t.Fatalf("expected all read, got %+v", list)
	}

	if err := store.ClearNotifications(ctx, "alice"); err != nil {
		t.Fatalf("ClearNotifications failed: %v", err)
	}
	list, _ = store.ListNotifications(ctx, "alice")
	if len(list) != 0 {
		t.Fatalf("expected empty list after clear, got %+v", list)
	}
}

func TestStoreUsersAndSettings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := account.User{
		ID:           "u1",
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	dup := user
	dup.ID = "u2"
	if err := store.CreateUser(ctx, dup); !errors.Is(err, account.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "ada@example.com")
	if err != nil || byEmail.ID != "u1" || byEmail.PasswordHash != "hash" || !byEmail.CreatedAt.Equal(user.CreatedAt) {
		t.Fatalf("GetUserByEmail = %+v, %v", byEmail, err)
	}
	if _, err := store.GetUser(ctx, "missing"); !errors.Is(err, account.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := store.UpdateUserName(ctx, "u1", "Countess"); err != nil {
		t.Fatalf("UpdateUserName failed: %v", err)
	}
	renamed, err := store.GetUser(ctx, "u1")
	if err != nil || renamed.Name != "Countess" {
		t.Fatalf("rename not persisted: %+v, %v", renamed, err)
	}
	if err := store.UpdateUserName(ctx, "missing", "x"); !errors.Is(err, account.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := store.ReadSettings(ctx, "u1"); !errors.Is(err, account.ErrSettingsNotFound) {
		t.Fatalf("expected ErrSettingsNotFound, got %v", err)
	}
	settings := account.Settings{Notifications: false, TimerVisible: true, Sound: false}
	if err := store.WriteSettings(ctx, "u1", settings); err != nil {
		t.Fatalf("WriteSettings failed: %v", err)
	}
	settings.Sound = true
	if err := store.WriteSettings(ctx, "u1", settings); err != nil {
		t.Fatalf("WriteSettings overwrite failed: %v", err)
	}
	got, err := store.ReadSettings(ctx, "u1")
	if err != nil || got != settings {
		t.Fatalf("ReadSettings = %+v, %v", got, err)
	}
}

func TestStoreCategoriesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	category := quiz.Category{
		Key:   "trivia",
		Title: "General Trivia",
		Icon:  "Globe",
		Questions: []quiz.Question{
			{ID: "q1", Question: "2+2?", Answers: []quiz.Answer{{Text: "4", Correct: true}, {Text: "5"}}},
		},
	}
	if err := store.SaveCategory(ctx, category); err != nil {
		t.Fatalf("SaveCategory failed: %v", err)
	}
	category.Title = "Trivia"
	if err := store.SaveCategory(ctx, category); err != nil {
		t.Fatalf("SaveCategory replace failed: %v", err)
	}

	categories, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 1 || categories[0].Title != "Trivia" {
		t.Fatalf("unexpected categories: %+v", categories)
	}
	if categories[0].Questions[0].CorrectIndex() != 0 {
		t.Fatalf("answer key lost: %+v", categories[0].Questions[0])
	}
}
