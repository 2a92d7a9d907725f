package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"resume-assistant-be/internal/constant"
	"resume-assistant-be/internal/dto"
	"resume-assistant-be/internal/entity"
	"resume-assistant-be/internal/pkg/logger"
	"resume-assistant-be/internal/pkg/serverutils"
	"resume-assistant-be/internal/repository/contract"
	"resume-assistant-be/pkg/candidate"
	"resume-assistant-be/pkg/events"
)

type IUploadService interface {
	// Submit validates and registers an uploaded resume. file is nil when the
	// request carried no file part.
	Submit(ctx context.Context, file *multipart.FileHeader, candidateName string) (*dto.UploadResult, error)
}

type uploadService struct {
	candidateRepository contract.CandidateRepository
	idGenerator         *candidate.IDGenerator
	publisherService    IPublisherService
	eventPublisher      events.Publisher
	logger              logger.ILogger
}

func NewUploadService(
	candidateRepository contract.CandidateRepository,
	idGenerator *candidate.IDGenerator,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IUploadService {
	return &uploadService{
		candidateRepository: candidateRepository,
		idGenerator:         idGenerator,
		publisherService:    publisherService,
		eventPublisher:      eventPublisher,
		logger:              log,
	}
}

// isPDF checks the declared media type only; bytes are sniffed later by the
// ingestion consumer.
func isPDF(mediaType string) bool {
	return strings.Contains(strings.ToLower(mediaType), "pdf")
}

func (s *uploadService) Submit(ctx context.Context, file *multipart.FileHeader, candidateName string) (*dto.UploadResult, error) {
	if file == nil {
		return nil, &serverutils.ValidationError{Message: constant.UploadErrNoFile}
	}

	mediaType := file.Header.Get("Content-Type")
	if !isPDF(mediaType) {
		return nil, &serverutils.UnsupportedMediaError{Message: constant.UploadErrOnlyPDF, MediaType: mediaType}
	}

	candidateName = strings.TrimSpace(candidateName)
	if candidateName == "" {
		candidateName = constant.DefaultCandidateName
	}

	id, err := s.idGenerator.Next()
	if err != nil {
		return nil, s.internal("Failed to mint candidate id", err, file.Filename)
	}

	content, err := readPart(file)
	if err != nil {
		return nil, s.internal("Failed to read uploaded file", err, file.Filename)
	}

	uploadedAt := time.Now()
	profile := &entity.CandidateProfile{
		Id:            id,
		FileName:      file.Filename,
		CandidateName: candidateName,
		Status:        entity.CandidateStatusPending,
		UploadedAt:    uploadedAt,
	}
	if err := s.candidateRepository.Create(ctx, profile); err != nil {
		return nil, s.internal("Failed to register candidate", err, file.Filename)
	}

	s.logger.Info("UPLOAD", "Resume accepted", map[string]interface{}{
		"candidate_id": id,
		"file_name":    file.Filename,
		"size":         len(content),
	})

	err = s.publisherService.PublishResume(ctx, dto.ResumeUploadedMessage{
		CandidateId: id,
		FileName:    file.Filename,
		MediaType:   mediaType,
		Content:     content,
	})
	if err != nil {
		s.markIngestFailed(ctx, profile, err)
	}

	if err := s.eventPublisher.Publish(ctx, events.CandidateUploaded(id, candidateName, file.Filename)); err != nil {
		s.logger.Warn("UPLOAD", "Failed to publish upload event", map[string]interface{}{
			"candidate_id": id,
			"error":        err.Error(),
		})
	}

	return &dto.UploadResult{
		Status:        constant.UploadStatusSuccess,
		CandidateId:   id,
		CandidateName: candidateName,
		Message:       constant.UploadMsgSuccess,
		UploadedAt:    &uploadedAt,
	}, nil
}

func (s *uploadService) markIngestFailed(ctx context.Context, profile *entity.CandidateProfile, cause error) {
	s.logger.Error("UPLOAD", "Failed to queue resume for ingestion", map[string]interface{}{
		"candidate_id": profile.Id,
		"error":        cause.Error(),
	})

	profile.Status = entity.CandidateStatusFailed
	profile.FailureReason = "ingestion queue unavailable"
	if err := s.candidateRepository.Update(ctx, profile); err != nil {
		s.logger.Error("UPLOAD", "Failed to mark candidate as failed", map[string]interface{}{
			"candidate_id": profile.Id,
			"error":        err.Error(),
		})
	}
}

func (s *uploadService) internal(message string, err error, fileName string) error {
	s.logger.Error("UPLOAD", message, map[string]interface{}{
		"file_name": fileName,
		"error":     err.Error(),
	})
	return &serverutils.InternalError{
		Message: constant.UploadErrFailed,
		Err:     fmt.Errorf("%s: %w", strings.ToLower(message), err),
	}
}

func readPart(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
