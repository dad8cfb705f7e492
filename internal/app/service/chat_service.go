package service

import (
	"context"
	"strings"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"

	"github.com/google/uuid"
)

type ChatService struct {
	chatRepo repository.ChatRepository
	gameRepo repository.GameRepository
}

func NewChatService(chatRepo repository.ChatRepository, gameRepo repository.GameRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo, gameRepo: gameRepo}
}

type SendMessageRequest struct {
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
}

func (s *ChatService) Send(ctx context.Context, gameSlug string, authorID *string, req SendMessageRequest) (*model.ChatMessage, error) {
	body := strings.TrimSpace(req.Body)
	if len(body) < model.ChatBodyMinLen || len(body) > model.ChatBodyMaxLen {
		return nil, common.Errorf("message body must be between %d and %d characters: %w",
			model.ChatBodyMinLen, model.ChatBodyMaxLen, common.ErrValidation)
	}
	authorName := strings.TrimSpace(req.AuthorName)
	if authorName == "" {
		authorName = "anonymous"
	}

	game, err := s.gameRepo.FindBySlug(ctx, gameSlug)
	if err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{
		ID:         uuid.NewString(),
		GameID:     game.ID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Body:       body,
	}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

const defaultChatHistoryLimit = 200

func (s *ChatService) List(ctx context.Context, gameSlug string) ([]model.ChatMessage, error) {
	game, err := s.gameRepo.FindBySlug(ctx, gameSlug)
	if err != nil {
		return nil, err
	}
	return s.chatRepo.ListByGame(ctx, game.ID, defaultChatHistoryLimit)
}
