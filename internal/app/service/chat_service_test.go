package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

func newTestChatService(t *testing.T) (*ChatService, *model.Game) {
	t.Helper()
	gameRepo := newFakeGameRepo()
	game := &model.Game{ID: "game-1", Slug: "chatty", Name: "Chatty", Status: model.StatusLobby}
	if err := gameRepo.Create(context.Background(), game); err != nil {
		t.Fatalf("failed to seed game: %v", err)
	}
	return NewChatService(&fakeChatRepo{}, gameRepo), game
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a trimmed message", func(t *testing.T) {
		svc, _ := newTestChatService(t)

		msg, err := svc.Send(ctx, "chatty", nil, SendMessageRequest{AuthorName: "alice", Body: "  gg everyone  "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if msg.Body != "gg everyone" {
			t.Errorf("expected trimmed body, got %q", msg.Body)
		}
		if msg.AuthorName != "alice" {
			t.Errorf("expected author alice, got %q", msg.AuthorName)
		}
	})

	t.Run("defaults an empty author to anonymous", func(t *testing.T) {
		svc, _ := newTestChatService(t)

		msg, err := svc.Send(ctx, "chatty", nil, SendMessageRequest{Body: "hello"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if msg.AuthorName != "anonymous" {
			t.Errorf("expected anonymous author, got %q", msg.AuthorName)
		}
	})

	t.Run("rejects empty and oversized bodies", func(t *testing.T) {
		svc, _ := newTestChatService(t)

		if _, err := svc.Send(ctx, "chatty", nil, SendMessageRequest{Body: "   "}); !errors.Is(err, common.ErrValidation) {
			t.Errorf("expected validation error for blank body, got %v", err)
		}
		long := strings.Repeat("x", model.ChatBodyMaxLen+1)
		if _, err := svc.Send(ctx, "chatty", nil, SendMessageRequest{Body: long}); !errors.Is(err, common.ErrValidation) {
			t.Errorf("expected validation error for long body, got %v", err)
		}
	})
}

func TestListMessages(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestChatService(t)

	svc.Send(ctx, "chatty", nil, SendMessageRequest{AuthorName: "alice", Body: "first"})
	svc.Send(ctx, "chatty", nil, SendMessageRequest{AuthorName: "bob", Body: "second"})

	messages, err := svc.List(ctx, "chatty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Body != "first" || messages[1].Body != "second" {
		t.Errorf("expected chronological order, got %v then %v", messages[0].Body, messages[1].Body)
	}
}
