package response

import (
	"context"
	"errors"
	"fmt"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/delegasi/delegation-manager/pkg/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db: db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) create(ctx context.Context, response *model.Response) error {
	// only use ctx for values (logging) and not cancellation signals on cud operations for now. ctx
	// cancellation can lead to rollbacks which we should decide individually.
	ctx = context.WithoutCancel(ctx)

	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(response).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errdef.NewBadRequest("response references an unknown event or user: %v", err)
	}
	if err != nil {
		return fmt.Errorf("failed to create response: %v", err)
	}

	return nil
}

func (r repository) find(ctx context.Context, id uint) (*model.Response, error) {
	var response *model.Response
	err := r.db.
		WithContext(ctx).
		Preload("User").
		First(&response, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("response not found by id: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find response: %v", err)
	}

	return response, nil
}

// findByEvent returns the responses of an event oldest first.
func (r repository) findByEvent(ctx context.Context, eventId uint) ([]model.Response, error) {
	var responses []model.Response
	err := r.db.
		WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventId).
		Order("created_at").
		Order("id").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find responses of event %d: %v", eventId, err)
	}

	return responses, nil
}
