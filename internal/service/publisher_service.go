package service

import (
	"context"
	"encoding/json"

	"resume-assistant-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IPublisherService interface {
	PublishResume(ctx context.Context, msg dto.ResumeUploadedMessage) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (ps *publisherService) PublishResume(ctx context.Context, msg dto.ResumeUploadedMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	m := message.NewMessage(uuid.NewString(), payload)
	m.SetContext(ctx)
	m.Metadata.Set("candidate_id", msg.CandidateId)

	return ps.publisher.Publish(ps.topicName, m)
}
