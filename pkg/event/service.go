package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/delegasi/delegation-manager/pkg/model"
)

// Actions reported to the notifier which are not transitions.
const (
	ActionCreated        = "created"
	ActionHandlerChanged = "handler-changed"
)

func NewService(logger *slog.Logger, repository eventRepository, userService userService, divisionService divisionService, notifier notifier) *Service {
	return &Service{
		logger:          logger,
		repository:      repository,
		userService:     userService,
		divisionService: divisionService,
		notifier:        notifier,
	}
}

type eventRepository interface {
	create(ctx context.Context, event *model.Event) error
	find(ctx context.Context, id uint) (*model.Event, error)
	findAll(ctx context.Context) ([]model.Event, error)
	search(ctx context.Context, title string) ([]model.Event, error)
	modify(ctx context.Context, id uint, columns []string, fn func(event *model.Event) error) error
	delete(ctx context.Context, id uint) error
}

type userService interface {
	FindById(ctx context.Context, id uint) (*model.User, error)
}

type divisionService interface {
	Find(ctx context.Context, id uint) (*model.Division, error)
}

type notifier interface {
	Notify(ctx context.Context, event *model.Event, action string)
}

type Service struct {
	logger          *slog.Logger
	repository      eventRepository
	userService     userService
	divisionService divisionService
	notifier        notifier
}

// CreateParams are the fields of a new event. EventFileURLs is the serialized attachment list as
// sent by clients.
type CreateParams struct {
	FromUserID          uint
	ToDivisionID        uint
	ToPersonID          uint
	Title               string
	Date                time.Time
	Description         *string
	DescriptionImageURL *string
	EventFileURLs       string
}

func (s Service) Create(ctx context.Context, params CreateParams) (*model.Event, error) {
	attachments, err := model.ParseAttachments(params.EventFileURLs)
	if err != nil {
		return nil, errdef.NewBadRequest("invalid eventFileUrls: %v", err)
	}

	err = s.checkReferences(ctx, &params.FromUserID, &params.ToDivisionID, &params.ToPersonID)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		FromUserID:          params.FromUserID,
		ToDivisionID:        params.ToDivisionID,
		ToPersonID:          params.ToPersonID,
		Title:               params.Title,
		Date:                params.Date,
		Description:         params.Description,
		DescriptionImageURL: params.DescriptionImageURL,
		EventFileURLs:       attachments,
		Status:              model.StatusNeedsVerification,
	}

	err = s.repository.create(ctx, event)
	if err != nil {
		return nil, err
	}

	created, err := s.repository.find(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, created, ActionCreated)

	return created, nil
}

// checkReferences ensures the users and division an event refers to exist. Nil ids are skipped.
func (s Service) checkReferences(ctx context.Context, fromUserId, toDivisionId, toPersonId *uint) error {
	if fromUserId != nil {
		if _, err := s.userService.FindById(ctx, *fromUserId); err != nil {
			return err
		}
	}

	if toDivisionId != nil {
		if _, err := s.divisionService.Find(ctx, *toDivisionId); err != nil {
			return err
		}
	}

	if toPersonId != nil {
		if _, err := s.userService.FindById(ctx, *toPersonId); err != nil {
			return err
		}
	}

	return nil
}

func (s Service) Find(ctx context.Context, id uint) (*model.Event, error) {
	return s.repository.find(ctx, id)
}

func (s Service) FindAll(ctx context.Context) ([]model.Event, error) {
	return s.repository.findAll(ctx)
}

func (s Service) Search(ctx context.Context, title string) ([]model.Event, error) {
	return s.repository.search(ctx, title)
}

// UpdateParams are the fields of an event to update. Nil fields are left untouched. EventFileURLs
// is the serialized attachment list sent by the client and Uploaded are attachments stored as part
// of the same request. Both are appended to the persisted attachments.
type UpdateParams struct {
	FromUserID          *uint
	ToDivisionID        *uint
	ToPersonID          *uint
	Title               *string
	Date                *time.Time
	Description         *string
	DescriptionImageURL *string
	Status              *model.Status
	EventFileURLs       string
	Uploaded            model.Attachments
}

var updateColumns = []string{
	"from_user_id",
	"to_division_id",
	"to_person_id",
	"title",
	"date",
	"description",
	"description_image_url",
	"event_file_urls",
	"status",
}

// ValidateUpdate checks an update without applying it. Files uploaded along with an update are
// stored before the update is applied, so it is validated first to not store files of an update
// which is going to fail.
func (s Service) ValidateUpdate(ctx context.Context, id uint, params UpdateParams) error {
	if _, err := s.repository.find(ctx, id); err != nil {
		return err
	}

	_, err := s.checkUpdate(ctx, params)
	return err
}

// checkUpdate validates the params and returns the parsed client attachments.
func (s Service) checkUpdate(ctx context.Context, params UpdateParams) (model.Attachments, error) {
	attachments, err := model.ParseAttachments(params.EventFileURLs)
	if err != nil {
		return nil, errdef.NewBadRequest("invalid eventFileUrls: %v", err)
	}

	if params.Status != nil && !params.Status.Valid() {
		return nil, errdef.NewBadRequest("invalid status %q", *params.Status)
	}

	err = s.checkReferences(ctx, params.FromUserID, params.ToDivisionID, params.ToPersonID)
	if err != nil {
		return nil, err
	}

	return attachments, nil
}

func (s Service) Update(ctx context.Context, id uint, params UpdateParams) (*model.Event, error) {
	attachments, err := s.checkUpdate(ctx, params)
	if err != nil {
		return nil, err
	}

	err = s.repository.modify(ctx, id, updateColumns, func(event *model.Event) error {
		if params.FromUserID != nil {
			event.FromUserID = *params.FromUserID
		}
		if params.ToDivisionID != nil {
			event.ToDivisionID = *params.ToDivisionID
		}
		if params.ToPersonID != nil {
			event.ToPersonID = *params.ToPersonID
		}
		if params.Title != nil {
			event.Title = *params.Title
		}
		if params.Date != nil {
			event.Date = *params.Date
		}
		if params.Description != nil {
			event.Description = params.Description
		}
		if params.DescriptionImageURL != nil {
			event.DescriptionImageURL = params.DescriptionImageURL
		}
		if params.Status != nil {
			event.Status = *params.Status
		}
		event.EventFileURLs = event.EventFileURLs.Append(attachments...).Append(params.Uploaded...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repository.find(ctx, id)
}

func (s Service) Delete(ctx context.Context, id uint) error {
	return s.repository.delete(ctx, id)
}

var transitionColumns = []string{"status", "rejection_reason"}

// Transition applies the transition of the given kind to the event. Only status and rejection
// reason of the event are written.
func (s Service) Transition(ctx context.Context, id uint, kind Kind, reason string) (*model.Event, error) {
	var transition Transition
	err := s.repository.modify(ctx, id, transitionColumns, func(event *model.Event) error {
		var err error
		transition, err = Apply(event, kind, reason)
		return err
	})
	if err != nil {
		return nil, err
	}

	transitionsTotal.WithLabelValues(string(transition.Kind), string(transition.Target)).Inc()

	event, err := s.repository.find(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Event transitioned", "eventId", id, "kind", kind, "status", event.Status)
	s.notifier.Notify(ctx, event, string(kind))

	return event, nil
}

// ChangeHandler routes the event to another division and person. The status is overwritten as well
// if given.
func (s Service) ChangeHandler(ctx context.Context, id uint, toDivisionId, toPersonId uint, status *model.Status) (*model.Event, error) {
	if status != nil && !status.Valid() {
		return nil, errdef.NewBadRequest("invalid status %q", *status)
	}

	err := s.checkReferences(ctx, nil, &toDivisionId, &toPersonId)
	if err != nil {
		return nil, err
	}

	columns := []string{"to_division_id", "to_person_id"}
	if status != nil {
		columns = append(columns, "status")
	}

	err = s.repository.modify(ctx, id, columns, func(event *model.Event) error {
		event.ToDivisionID = toDivisionId
		event.ToPersonID = toPersonId
		if status != nil {
			event.Status = *status
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event, err := s.repository.find(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, event, ActionHandlerChanged)

	return event, nil
}
