package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
)

func TestTreapStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if count := store.Count(ctx, model.Batting); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	if err := store.Set(ctx, model.Batting, "V Kohli", 1512.4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := store.Count(ctx, model.Batting); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	entry, err := store.Rank(ctx, model.Batting, "V Kohli")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 {
		t.Errorf("expected rank 1, got %d", entry.Rank)
	}
	if entry.Rating != 1512.4 {
		t.Errorf("expected rating 1512.4, got %f", entry.Rating)
	}

	entries, err := store.TopN(ctx, model.Batting, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestTreapStore_SetReplacesRating(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	store.Set(ctx, model.Batting, "V Kohli", 1510)
	store.Set(ctx, model.Batting, "RG Sharma", 1505)

	// Ratings drop as well as rise; Set must accept decreases.
	store.Set(ctx, model.Batting, "V Kohli", 1501)

	entries, err := store.TopN(ctx, model.Batting, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries[0].Player != "RG Sharma" {
		t.Errorf("expected RG Sharma on top, got %s", entries[0].Player)
	}
	if entries[1].Player != "V Kohli" || entries[1].Rating != 1501 {
		t.Errorf("expected V Kohli at 1501, got %s at %f", entries[1].Player, entries[1].Rating)
	}
	if count := store.Count(ctx, model.Batting); count != 2 {
		t.Errorf("expected count 2 after replacement, got %d", count)
	}
}

func TestTreapStore_KindsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	store.Set(ctx, model.Batting, "V Kohli", 1520)
	store.Set(ctx, model.Bowling, "JJ Bumrah", 1530)

	if _, err := store.Rank(ctx, model.Bowling, "V Kohli"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for V Kohli bowling, got %v", err)
	}
	if count := store.Count(ctx, model.Bowling); count != 1 {
		t.Errorf("expected 1 bowler, got %d", count)
	}

	players := store.Players(ctx)
	want := []string{"JJ Bumrah", "V Kohli"}
	if len(players) != 2 || players[0] != want[0] || players[1] != want[1] {
		t.Errorf("expected %v, got %v", want, players)
	}
}

func TestTreapStore_Ordering(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	store.Set(ctx, model.Batting, "C Player", 1500)
	store.Set(ctx, model.Batting, "A Player", 1500)
	store.Set(ctx, model.Batting, "B Player", 1510)

	entries, err := store.TopN(ctx, model.Batting, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Rating desc, then player asc; equal ratings share a rank.
	if entries[0].Player != "B Player" || entries[0].Rank != 1 {
		t.Errorf("expected B Player rank 1, got %s rank %d", entries[0].Player, entries[0].Rank)
	}
	if entries[1].Player != "A Player" || entries[1].Rank != 2 {
		t.Errorf("expected A Player rank 2, got %s rank %d", entries[1].Player, entries[1].Rank)
	}
	if entries[2].Player != "C Player" || entries[2].Rank != 2 {
		t.Errorf("expected C Player rank 2, got %s rank %d", entries[2].Player, entries[2].Rank)
	}
}

func TestTreapStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if _, err := store.TopN(ctx, model.Batting, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := store.Rank(ctx, model.Batting, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.Set(ctx, model.RatingKind("fielding"), "x", 1500); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestTreapStore_MatchesSortedReference(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()
	rng := rand.New(rand.NewSource(7))

	type ref struct {
		player string
		rating float64
	}
	refs := make([]ref, 0, 200)
	for i := 0; i < 200; i++ {
		player := fmt.Sprintf("player-%03d", i)
		rating := 1500 + rng.Float64()*100 - 50
		refs = append(refs, ref{player, rating})
		if err := store.Set(ctx, model.Batting, player, rating); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].rating != refs[j].rating {
			return refs[i].rating > refs[j].rating
		}
		return refs[i].player < refs[j].player
	})

	entries, err := store.TopN(ctx, model.Batting, 200)
	if err != nil {
		t.Fatalf("topn: %v", err)
	}
	if len(entries) != 200 {
		t.Fatalf("expected 200 entries, got %d", len(entries))
	}
	for i := range refs {
		if entries[i].Player != refs[i].player {
			t.Fatalf("rank %d: expected %s, got %s", i+1, refs[i].player, entries[i].Player)
		}
	}
}
