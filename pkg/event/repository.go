package event

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

func selectUserSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "email")
}

func selectDivisionSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name")
}

// withParticipants preloads sender, recipient and division of an event. Only the identifying
// columns are loaded.
func withParticipants(db *gorm.DB) *gorm.DB {
	return db.
		Preload("FromUser", selectUserSummary).
		Preload("ToPerson", selectUserSummary).
		Preload("ToDivision", selectDivisionSummary)
}

func (r repository) create(ctx context.Context, event *model.Event) error {
	// only use ctx for values (logging) and not cancellation signals on cud operations for now. ctx
	// cancellation can lead to rollbacks which we should decide individually.
	ctx = context.WithoutCancel(ctx)

	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(event).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errdef.NewBadRequest("event references an unknown user or division: %v", err)
	}
	if err != nil {
		return fmt.Errorf("failed to create event: %v", err)
	}

	return nil
}

func (r repository) find(ctx context.Context, id uint) (*model.Event, error) {
	var event *model.Event
	err := r.db.
		WithContext(ctx).
		Scopes(withParticipants).
		First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("event not found by id: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event: %v", err)
	}

	return event, nil
}

func (r repository) findAll(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := r.db.
		WithContext(ctx).
		Scopes(withParticipants).
		Order("id").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find events: %v", err)
	}

	return events, nil
}

func (r repository) search(ctx context.Context, title string) ([]model.Event, error) {
	var events []model.Event
	err := r.db.
		WithContext(ctx).
		Scopes(withParticipants).
		Where("title LIKE ?", "%"+title+"%").
		Order("id").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %v", err)
	}

	return events, nil
}

// modify loads the event, lets fn change it and writes the given columns back within a single
// transaction. Columns not listed are never written.
func (r repository) modify(ctx context.Context, id uint, columns []string, fn func(event *model.Event) error) error {
	ctx = context.WithoutCancel(ctx)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.Event
		err := tx.First(&event, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errdef.NewNotFound("event not found by id: %d", id)
		}
		if err != nil {
			return fmt.Errorf("failed to find event: %v", err)
		}

		if err := fn(&event); err != nil {
			return err
		}

		err = tx.
			Model(&event).
			Select(columns).
			Omit(clause.Associations).
			Updates(&event).Error
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return errdef.NewBadRequest("event references an unknown user or division: %v", err)
		}
		if err != nil {
			return fmt.Errorf("failed to update event: %v", err)
		}

		return nil
	})
}

func (r repository) delete(ctx context.Context, id uint) error {
	ctx = context.WithoutCancel(ctx)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("event_id = ?", id).Delete(&model.Response{}).Error
		if err != nil {
			return fmt.Errorf("failed to delete responses of event %d: %v", id, err)
		}

		db := tx.Delete(&model.Event{}, id)
		if db.Error != nil {
			return fmt.Errorf("failed to delete event: %v", db.Error)
		}

		if db.RowsAffected < 1 {
			return errdef.NewNotFound("event not found by id: %d", id)
		}

		return nil
	})
}
