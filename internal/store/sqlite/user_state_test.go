package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfscope/shelfscope-server/internal/domain"
	"github.com/shelfscope/shelfscope-server/internal/store"
)

func TestUpsertAndGetUserBookState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	rating := 5
	state := &domain.UserBookState{
		Title:     "Hyperion",
		Author:    "Dan Simmons",
		Read:      true,
		Rating:    &rating,
		UpdatedAt: now,
	}

	if err := s.UpsertUserBookState(ctx, state); err != nil {
		t.Fatalf("UpsertUserBookState: %v", err)
	}

	got, err := s.GetUserBookState(ctx, "Hyperion", "Dan Simmons")
	if err != nil {
		t.Fatalf("GetUserBookState: %v", err)
	}

	if !got.Read {
		t.Error("Read: expected true")
	}
	if got.Rating == nil || *got.Rating != 5 {
		t.Errorf("Rating: got %v", got.Rating)
	}
	if got.UpdatedAt.Unix() != now.Unix() {
		t.Errorf("UpdatedAt: got %v, want %v", got.UpdatedAt, now)
	}
}

func TestGetUserBookState_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUserBookState(context.Background(), "Unknown", "Nobody")
	if !errors.Is(err, store.ErrUserBookStateNotFound) {
		t.Fatalf("expected store.ErrUserBookStateNotFound, got %v", err)
	}
}

func TestGetUserBookState_RelaxedAuthorMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Row stored without an author applies to any author.
	state := domain.NewUserBookState("Hyperion", "")
	state.Read = true
	if err := s.UpsertUserBookState(ctx, state); err != nil {
		t.Fatalf("UpsertUserBookState: %v", err)
	}

	got, err := s.GetUserBookState(ctx, "Hyperion", "Dan Simmons")
	if err != nil {
		t.Fatalf("GetUserBookState: %v", err)
	}
	if !got.Read {
		t.Error("expected authorless row to match")
	}

	// An empty query author matches a row stored with one.
	full := domain.NewUserBookState("Endymion", "Dan Simmons")
	if err := s.UpsertUserBookState(ctx, full); err != nil {
		t.Fatalf("UpsertUserBookState: %v", err)
	}
	if _, err := s.GetUserBookState(ctx, "Endymion", ""); err != nil {
		t.Fatalf("GetUserBookState with empty author: %v", err)
	}
}

func TestGetUserBookState_ExactAuthorWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	wildcard := domain.NewUserBookState("Hyperion", "")
	if err := s.UpsertUserBookState(ctx, wildcard); err != nil {
		t.Fatalf("UpsertUserBookState: %v", err)
	}

	rating := 4
	exact := domain.NewUserBookState("Hyperion", "Dan Simmons")
	exact.Rating = &rating
	if err := s.UpsertUserBookState(ctx, exact); err != nil {
		t.Fatalf("UpsertUserBookState: %v", err)
	}

	got, err := s.GetUserBookState(ctx, "Hyperion", "Dan Simmons")
	if err != nil {
		t.Fatalf("GetUserBookState: %v", err)
	}
	if got.Rating == nil || *got.Rating != 4 {
		t.Errorf("expected the exact-author row, got %+v", got)
	}
}

func TestUpsertUserBookState_Replaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	state := domain.NewUserBookState("Beloved", "Toni Morrison")
	state.Read = false
	if err := s.UpsertUserBookState(ctx, state); err != nil {
		t.Fatalf("UpsertUserBookState: %v", err)
	}

	state.Read = true
	rating := 5
	state.Rating = &rating
	state.UpdatedAt = time.Now().UTC()
	if err := s.UpsertUserBookState(ctx, state); err != nil {
		t.Fatalf("UpsertUserBookState update: %v", err)
	}

	states, err := s.ListUserBookStates(ctx)
	if err != nil {
		t.Fatalf("ListUserBookStates: %v", err)
	}
	if len(states) != 1 {
		t.Fatalf("expected 1 row, got %d", len(states))
	}
	if !states[0].Read || states[0].Rating == nil {
		t.Errorf("expected updated row, got %+v", states[0])
	}
}
