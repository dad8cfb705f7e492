package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/platform/config"

	"github.com/rs/zerolog"
)

func newTestPresenceService() (*PresenceService, *fakePresenceRepo) {
	presenceRepo := newFakePresenceRepo()
	gameService := NewGameService(newFakeGameRepo(), presenceRepo, newFakeScoreRepo(), &fakeChatRepo{}, zerolog.Nop())
	return NewPresenceService(presenceRepo, gameService, zerolog.Nop()), presenceRepo
}

func TestHeartbeat(t *testing.T) {
	ctx := context.Background()

	t.Run("first beat creates the entry and opens the game", func(t *testing.T) {
		svc, _ := newTestPresenceService()

		result, err := svc.Heartbeat(ctx, "fresh-game", "client-1", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Created {
			t.Error("expected created=true on first beat")
		}
		if result.ActiveCount != 1 {
			t.Errorf("expected active count 1, got %d", result.ActiveCount)
		}
	})

	t.Run("repeat beat refreshes instead of duplicating", func(t *testing.T) {
		svc, _ := newTestPresenceService()

		svc.Heartbeat(ctx, "busy-game", "client-1", nil)
		result, err := svc.Heartbeat(ctx, "busy-game", "client-1", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Created {
			t.Error("expected created=false on refresh")
		}
		if result.ActiveCount != 1 {
			t.Errorf("expected active count 1 after refresh, got %d", result.ActiveCount)
		}
	})

	t.Run("counts distinct clients", func(t *testing.T) {
		svc, _ := newTestPresenceService()

		svc.Heartbeat(ctx, "crowded", "client-1", nil)
		result, _ := svc.Heartbeat(ctx, "crowded", "client-2", nil)
		if result.ActiveCount != 2 {
			t.Errorf("expected active count 2, got %d", result.ActiveCount)
		}
	})

	t.Run("rejects a missing client id", func(t *testing.T) {
		svc, _ := newTestPresenceService()

		_, err := svc.Heartbeat(ctx, "some-game", "", nil)
		if !errors.Is(err, common.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestActiveCountExcludesExpired(t *testing.T) {
	ctx := context.Background()
	svc, presenceRepo := newTestPresenceService()

	svc.Heartbeat(ctx, "ttl-game", "alive", nil)
	// A beat older than the TTL window must not count.
	stale := time.Now().Add(-2 * config.AppConfig.PresenceTTL)
	presenceRepo.Beat(ctx, "ttl-game", "ghost", nil, stale)

	count, err := svc.ActiveCount(ctx, "ttl-game")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 active client, got %d", count)
	}

	roster, err := svc.Roster(ctx, "ttl-game")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roster) != 1 || roster[0].ClientID != "alive" {
		t.Errorf("expected roster with only the live client, got %v", roster)
	}
}

func TestLeave(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPresenceService()

	svc.Heartbeat(ctx, "exit-game", "leaver", nil)
	if err := svc.Leave(ctx, "exit-game", "leaver"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, _ := svc.ActiveCount(ctx, "exit-game")
	if count != 0 {
		t.Errorf("expected 0 active clients after leave, got %d", count)
	}

	// Leaving again, or from an unknown game, is a no-op.
	if err := svc.Leave(ctx, "exit-game", "leaver"); err != nil {
		t.Errorf("expected repeated leave to succeed, got %v", err)
	}
	if err := svc.Leave(ctx, "no-such-game", "leaver"); err != nil {
		t.Errorf("expected leave on unknown game to succeed, got %v", err)
	}
}

func TestReapStale(t *testing.T) {
	ctx := context.Background()
	svc, presenceRepo := newTestPresenceService()

	svc.Heartbeat(ctx, "reap-game", "alive", nil)
	stale := time.Now().Add(-2 * config.AppConfig.PresenceTTL)
	presenceRepo.Beat(ctx, "reap-game", "ghost-1", nil, stale)
	presenceRepo.Beat(ctx, "other-game", "ghost-2", nil, stale)

	removed, err := svc.ReapStale(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 reaped entries, got %d", removed)
	}

	count, _ := svc.ActiveCount(ctx, "reap-game")
	if count != 1 {
		t.Errorf("expected the live client to survive reaping, got %d", count)
	}
}
