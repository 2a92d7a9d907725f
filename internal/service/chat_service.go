package service

import (
	"context"

	"resume-assistant-be/internal/dto"
	"resume-assistant-be/internal/entity"
	"resume-assistant-be/internal/pkg/logger"
	"resume-assistant-be/internal/pkg/serverutils"
	"resume-assistant-be/internal/repository/contract"
	"resume-assistant-be/pkg/events"
	"resume-assistant-be/pkg/rag/history"
	"resume-assistant-be/pkg/rag/intent"
	"resume-assistant-be/pkg/rag/response"
)

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	resolver            *intent.Resolver
	generator           *response.Generator
	candidateRepository contract.CandidateRepository
	eventPublisher      events.Publisher
	logger              logger.ILogger
}

func NewChatService(
	resolver *intent.Resolver,
	generator *response.Generator,
	candidateRepository contract.CandidateRepository,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		resolver:            resolver,
		generator:           generator,
		candidateRepository: candidateRepository,
		eventPublisher:      eventPublisher,
		logger:              log,
	}
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	turns := make([]entity.ConversationTurn, 0, len(req.History))
	for _, t := range req.History {
		turns = append(turns, entity.ConversationTurn{Role: history.NormalizeRole(t.Role), Content: t.Content})
	}

	res := s.resolver.Resolve(req.Message, turns)
	reply := res.Reply

	if s.generator.Enabled() {
		profile := s.lookupCandidate(ctx, req.CandidateId)
		reply, _ = s.generator.Generate(ctx, profile, req.Message, res)
	}

	if err := s.eventPublisher.Publish(ctx, events.ChatReplied(req.CandidateId, res.Category, len(turns))); err != nil {
		s.logger.Warn("CHAT", "Failed to publish chat event", map[string]interface{}{
			"candidate_id": req.CandidateId,
			"error":        err.Error(),
		})
	}

	return &dto.ChatResponse{
		Reply:   reply,
		Sources: res.Citations,
	}, nil
}

// lookupCandidate degrades to an anonymous candidate when the registry is
// unavailable; chat must keep answering.
func (s *chatService) lookupCandidate(ctx context.Context, candidateId string) *entity.CandidateProfile {
	if candidateId == "" {
		return nil
	}

	profile, err := s.candidateRepository.FindById(ctx, candidateId)
	if err != nil {
		s.logger.Warn("CHAT", "Candidate lookup failed", map[string]interface{}{
			"candidate_id": candidateId,
			"error":        err.Error(),
		})
		return nil
	}
	return profile
}
