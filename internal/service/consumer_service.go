package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resume-assistant-be/internal/dto"
	"resume-assistant-be/internal/entity"
	"resume-assistant-be/internal/pkg/logger"
	"resume-assistant-be/internal/repository/contract"
	"resume-assistant-be/pkg/events"
	"resume-assistant-be/pkg/resume"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gabriel-vasile/mimetype"
)

const pdfMediaType = "application/pdf"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber          message.Subscriber
	topicName           string
	candidateRepository contract.CandidateRepository
	extractor           resume.Extractor
	extractTimeout      time.Duration
	eventPublisher      events.Publisher
	logger              logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	candidateRepository contract.CandidateRepository,
	extractor resume.Extractor,
	extractTimeout time.Duration,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:          subscriber,
		topicName:           topicName,
		candidateRepository: candidateRepository,
		extractor:           extractor,
		extractTimeout:      extractTimeout,
		eventPublisher:      eventPublisher,
		logger:              log,
	}
}

// Consume starts processing in the background until ctx is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: a resume that cannot be parsed is recorded as
// failed rather than redelivered.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.ResumeUploadedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("INGEST", "Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	existing, err := cs.candidateRepository.FindById(ctx, payload.CandidateId)
	if err != nil || existing == nil {
		cs.logger.Error("INGEST", "Candidate not found for uploaded resume", map[string]interface{}{
			"candidate_id": payload.CandidateId,
			"error":        fmt.Sprint(err),
		})
		return
	}

	facts, failure := cs.extract(ctx, payload)

	// Projects or GitHub data may land while extraction runs; only touch ingestion fields.
	profile, err := cs.candidateRepository.Modify(ctx, payload.CandidateId, func(p *entity.CandidateProfile) error {
		if failure != "" {
			p.Status = entity.CandidateStatusFailed
			p.FailureReason = failure
			return nil
		}
		p.Status = entity.CandidateStatusParsed
		p.Facts = facts
		p.FailureReason = ""
		return nil
	})
	if err != nil || profile == nil {
		cs.logger.Error("INGEST", "Failed to store extraction result", map[string]interface{}{
			"candidate_id": payload.CandidateId,
			"error":        fmt.Sprint(err),
		})
		return
	}

	cs.logger.Info("INGEST", "Resume processed", map[string]interface{}{
		"candidate_id": profile.Id,
		"status":       string(profile.Status),
	})

	if err := cs.eventPublisher.Publish(ctx, events.CandidateParsed(profile.Id, string(profile.Status), profile.FailureReason)); err != nil {
		cs.logger.Warn("INGEST", "Failed to publish parsed event", map[string]interface{}{
			"candidate_id": profile.Id,
			"error":        err.Error(),
		})
	}
}

// extract returns the facts, or a non-empty failure reason.
func (cs *consumerService) extract(ctx context.Context, payload dto.ResumeUploadedMessage) (*entity.ResumeFacts, string) {
	detected := mimetype.Detect(payload.Content)
	if !detected.Is(pdfMediaType) {
		cs.logger.Warn("INGEST", "Uploaded file is not a PDF", map[string]interface{}{
			"candidate_id": payload.CandidateId,
			"declared":     payload.MediaType,
			"detected":     detected.String(),
		})
		return nil, fmt.Sprintf("content is not a PDF (detected %s)", detected.String())
	}

	if cs.extractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cs.extractTimeout)
		defer cancel()
	}

	facts, err := cs.extractor.Extract(ctx, payload.FileName, payload.Content)
	if err != nil {
		cs.logger.Error("INGEST", "Resume extraction failed", map[string]interface{}{
			"candidate_id": payload.CandidateId,
			"error":        err.Error(),
		})
		return nil, "resume extraction failed"
	}
	return facts, ""
}
