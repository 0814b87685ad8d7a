package division

import (
	"context"
	"strings"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/delegasi/delegation-manager/pkg/model"
)

func NewService(repository divisionRepository) *Service {
	return &Service{repository: repository}
}

type divisionRepository interface {
	create(ctx context.Context, division *model.Division) error
	find(ctx context.Context, id uint) (*model.Division, error)
	findByName(ctx context.Context, name string) (*model.Division, error)
	findAll(ctx context.Context) ([]model.Division, error)
	update(ctx context.Context, id uint, name string) (*model.Division, error)
	delete(ctx context.Context, id uint) error
}

type Service struct {
	repository divisionRepository
}

func (s Service) Create(ctx context.Context, name string) (*model.Division, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errdef.NewBadRequest("division name must not be empty")
	}

	division := &model.Division{Name: name}
	err := s.repository.create(ctx, division)
	if err != nil {
		return nil, err
	}

	return division, nil
}

func (s Service) Find(ctx context.Context, id uint) (*model.Division, error) {
	return s.repository.find(ctx, id)
}

func (s Service) FindByName(ctx context.Context, name string) (*model.Division, error) {
	return s.repository.findByName(ctx, name)
}

// FindOrCreate returns the division with the given name creating it if it doesn't exist.
func (s Service) FindOrCreate(ctx context.Context, name string) (*model.Division, error) {
	division, err := s.repository.findByName(ctx, name)
	if err == nil {
		return division, nil
	}
	if !errdef.IsNotFound(err) {
		return nil, err
	}

	return s.Create(ctx, name)
}

func (s Service) FindAll(ctx context.Context) ([]model.Division, error) {
	return s.repository.findAll(ctx)
}

func (s Service) Update(ctx context.Context, id uint, name string) (*model.Division, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errdef.NewBadRequest("division name must not be empty")
	}

	return s.repository.update(ctx, id, name)
}

func (s Service) Delete(ctx context.Context, id uint) error {
	return s.repository.delete(ctx, id)
}
