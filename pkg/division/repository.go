package division

import (
	"context"
	"errors"
	"fmt"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/delegasi/delegation-manager/pkg/model"
	"gorm.io/gorm"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db: db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) create(ctx context.Context, division *model.Division) error {
	// only use ctx for values (logging) and not cancellation signals on cud operations for now. ctx
	// cancellation can lead to rollbacks which we should decide individually.
	ctx = context.WithoutCancel(ctx)

	err := r.db.WithContext(ctx).Create(division).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("division %q already exists", division.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to create division: %v", err)
	}

	return nil
}

func (r repository) find(ctx context.Context, id uint) (*model.Division, error) {
	var division *model.Division
	err := r.db.WithContext(ctx).First(&division, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("division not found by id: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find division: %v", err)
	}

	return division, nil
}

func (r repository) findByName(ctx context.Context, name string) (*model.Division, error) {
	var division *model.Division
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&division).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("division %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find division: %v", err)
	}

	return division, nil
}

func (r repository) findAll(ctx context.Context) ([]model.Division, error) {
	var divisions []model.Division
	err := r.db.WithContext(ctx).Order("name").Find(&divisions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find divisions: %v", err)
	}

	return divisions, nil
}

func (r repository) update(ctx context.Context, id uint, name string) (*model.Division, error) {
	ctx = context.WithoutCancel(ctx)

	db := r.db.WithContext(ctx).Model(&model.Division{}).Where("id = ?", id).Update("name", name)
	if errors.Is(db.Error, gorm.ErrDuplicatedKey) {
		return nil, errdef.NewDuplicated("division %q already exists", name)
	}
	if db.Error != nil {
		return nil, fmt.Errorf("failed to update division: %v", db.Error)
	}
	if db.RowsAffected < 1 {
		return nil, errdef.NewNotFound("division not found by id: %d", id)
	}

	return r.find(ctx, id)
}

func (r repository) delete(ctx context.Context, id uint) error {
	ctx = context.WithoutCancel(ctx)

	db := r.db.WithContext(ctx).Delete(&model.Division{}, id)
	if errors.Is(db.Error, gorm.ErrForeignKeyViolated) {
		return errdef.NewBadRequest("division %d still has events routed to it", id)
	}
	if db.Error != nil {
		return fmt.Errorf("failed to delete division: %v", db.Error)
	}
	if db.RowsAffected < 1 {
		return errdef.NewNotFound("division not found by id: %d", id)
	}

	return nil
}
