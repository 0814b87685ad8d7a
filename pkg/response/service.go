package response

import (
	"context"
	"log/slog"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/delegasi/delegation-manager/pkg/event"
	"github.com/delegasi/delegation-manager/pkg/model"
)

func NewService(logger *slog.Logger, repository responseRepository, eventService eventService, userService userService) *Service {
	return &Service{
		logger:       logger,
		repository:   repository,
		eventService: eventService,
		userService:  userService,
	}
}

type responseRepository interface {
	create(ctx context.Context, response *model.Response) error
	find(ctx context.Context, id uint) (*model.Response, error)
	findByEvent(ctx context.Context, eventId uint) ([]model.Response, error)
}

type eventService interface {
	Find(ctx context.Context, id uint) (*model.Event, error)
	Transition(ctx context.Context, id uint, kind event.Kind, reason string) (*model.Event, error)
}

type userService interface {
	FindById(ctx context.Context, id uint) (*model.User, error)
}

type Service struct {
	logger       *slog.Logger
	repository   responseRepository
	eventService eventService
	userService  userService
}

// CreateParams are the fields of a new response. ResponseFileURLs is the serialized attachment list
// as sent by clients.
type CreateParams struct {
	EventID          uint
	UserID           uint
	ResponseText     string
	ResponseImageURL *string
	ResponseFileURLs string
}

// Created is the outcome of creating a response. StatusUpdated reports whether the event was
// rejected because the author is a verificator.
type Created struct {
	Response      *model.Response
	StatusUpdated bool
}

// Create persists a response on an event. A response written by a verificator also rejects the
// event. The rejection is applied after the response is persisted and a failure to apply it is
// logged and reported through Created.StatusUpdated rather than returned.
func (s Service) Create(ctx context.Context, params CreateParams) (*Created, error) {
	attachments, err := model.ParseAttachments(params.ResponseFileURLs)
	if err != nil {
		return nil, errdef.NewBadRequest("invalid responseFileUrls: %v", err)
	}

	_, err = s.eventService.Find(ctx, params.EventID)
	if err != nil {
		return nil, err
	}

	author, err := s.userService.FindById(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	response := &model.Response{
		EventID:          params.EventID,
		UserID:           params.UserID,
		ResponseText:     params.ResponseText,
		ResponseImageURL: params.ResponseImageURL,
		ResponseFileURLs: attachments,
	}
	err = s.repository.create(ctx, response)
	if err != nil {
		return nil, err
	}

	created := &Created{Response: response}
	if author.IsVerificator() {
		_, err := s.eventService.Transition(ctx, params.EventID, event.KindVerificatorReject, "")
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to reject event after verificator response", "eventId", params.EventID, "responseId", response.ID, "error", err)
		} else {
			created.StatusUpdated = true
		}
	}

	persisted, err := s.repository.find(ctx, response.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to reload created response", "responseId", response.ID, "error", err)
	} else {
		created.Response = persisted
	}

	return created, nil
}

// FindByEvent returns the responses of an event oldest first.
func (s Service) FindByEvent(ctx context.Context, eventId uint) ([]model.Response, error) {
	return s.repository.findByEvent(ctx, eventId)
}
