package user

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

func (r repository) create(ctx context.Context, u *model.User) error {
	// only use ctx for values (logging) and not cancellation signals on cud operations for now. ctx
	// cancellation can lead to rollbacks which we should decide individually.
	ctx = context.WithoutCancel(ctx)

	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("user %q already exists", u.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %v", err)
	}

	return nil
}

func (r repository) save(ctx context.Context, u *model.User) error {
	ctx = context.WithoutCancel(ctx)

	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("username %q or email %q already in use", u.Username, u.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to save user: %v", err)
	}

	return nil
}

func (r repository) findById(ctx context.Context, id uint) (*model.User, error) {
	var u *model.User
	err := r.db.
		WithContext(ctx).
		Preload("Division").
		First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("user not found by id: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %v", err)
	}

	return u, nil
}

func (r repository) findByEmail(ctx context.Context, email string) (*model.User, error) {
	var u *model.User
	err := r.db.
		WithContext(ctx).
		Preload("Division").
		Where("email = ?", email).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %v", err)
	}

	return u, nil
}

func (r repository) findAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.
		WithContext(ctx).
		Preload("Division").
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find all users: %v", err)
	}

	return users, nil
}

func (r repository) findByDivision(ctx context.Context, divisionId uint) ([]model.User, error) {
	var users []model.User
	err := r.db.
		WithContext(ctx).
		Preload("Division").
		Where("division_id = ?", divisionId).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find users of division %d: %v", divisionId, err)
	}

	return users, nil
}

func (r repository) updateRole(ctx context.Context, id uint, role model.Role) error {
	ctx = context.WithoutCancel(ctx)

	db := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("role", role)
	if db.Error != nil {
		return fmt.Errorf("failed to update role of user %d: %v", id, db.Error)
	}
	if db.RowsAffected < 1 {
		return errdef.NewNotFound("user not found by id: %d", id)
	}

	return nil
}

func (r repository) deleteByEmail(ctx context.Context, email string) error {
	ctx = context.WithoutCancel(ctx)

	db := r.db.WithContext(ctx).Where("email = ?", email).Delete(&model.User{})
	if errors.Is(db.Error, gorm.ErrForeignKeyViolated) {
		return errdef.NewBadRequest("user %q still has events or responses", email)
	}
	if db.Error != nil {
		return fmt.Errorf("failed to delete user %q: %v", email, db.Error)
	}
	if db.RowsAffected < 1 {
		return errdef.NewNotFound("User not found")
	}

	return nil
}
