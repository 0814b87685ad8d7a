package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/delegasi/delegation-manager/pkg/model"
	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 10

func NewService(repository userRepository, divisionService divisionService) *Service {
	return &Service{
		repository:      repository,
		divisionService: divisionService,
	}
}

type userRepository interface {
	create(ctx context.Context, u *model.User) error
	save(ctx context.Context, u *model.User) error
	findById(ctx context.Context, id uint) (*model.User, error)
	findByEmail(ctx context.Context, email string) (*model.User, error)
	findAll(ctx context.Context) ([]model.User, error)
	findByDivision(ctx context.Context, divisionId uint) ([]model.User, error)
	updateRole(ctx context.Context, id uint, role model.Role) error
	deleteByEmail(ctx context.Context, email string) error
}

type divisionService interface {
	Find(ctx context.Context, id uint) (*model.Division, error)
	FindByName(ctx context.Context, name string) (*model.Division, error)
}

type Service struct {
	repository      userRepository
	divisionService divisionService
}

type RegisterParams struct {
	Username     string
	Email        string
	Password     string
	DivisionName string
}

func (s Service) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	_, err := s.repository.findByEmail(ctx, params.Email)
	if err == nil {
		return nil, errdef.NewDuplicated("User already exists")
	}
	if !errdef.IsNotFound(err) {
		return nil, err
	}

	u := &model.User{
		Username: params.Username,
		Email:    params.Email,
	}

	if params.DivisionName != "" {
		division, err := s.divisionService.FindByName(ctx, params.DivisionName)
		if err != nil {
			return nil, err
		}
		u.DivisionID = &division.ID
	}

	u.Password, err = hashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	err = s.repository.create(ctx, u)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (s Service) SignIn(ctx context.Context, email string, password string) (*model.User, error) {
	u, err := s.repository.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	match, err := comparePasswords(u.Password, password)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, errdef.NewBadRequest("Incorrect password")
	}

	return u, nil
}

func (s Service) FindById(ctx context.Context, id uint) (*model.User, error) {
	return s.repository.findById(ctx, id)
}

func (s Service) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repository.findByEmail(ctx, email)
}

func (s Service) FindAll(ctx context.Context) ([]model.User, error) {
	return s.repository.findAll(ctx)
}

// FindByDivision returns the members of the division. The division must exist.
func (s Service) FindByDivision(ctx context.Context, divisionId uint) ([]model.User, error) {
	_, err := s.divisionService.Find(ctx, divisionId)
	if err != nil {
		return nil, err
	}

	return s.repository.findByDivision(ctx, divisionId)
}

type ProfileParams struct {
	Email       string
	NewEmail    string
	Username    string
	Description *string
}

// UpdateProfile changes the username, email and description of the user identified by email.
// Empty values leave the current value untouched.
func (s Service) UpdateProfile(ctx context.Context, params ProfileParams) (*model.User, error) {
	u, err := s.repository.findByEmail(ctx, params.Email)
	if err != nil {
		return nil, err
	}

	if params.NewEmail != "" && params.NewEmail != u.Email {
		other, err := s.repository.findByEmail(ctx, params.NewEmail)
		if err == nil && other.ID != u.ID {
			return nil, errdef.NewDuplicated("Email already in use by another user")
		}
		if err != nil && !errdef.IsNotFound(err) {
			return nil, err
		}
		u.Email = params.NewEmail
	}

	if params.Username != "" {
		u.Username = params.Username
	}
	if params.Description != nil {
		u.Description = *params.Description
	}

	err = s.repository.save(ctx, u)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (s Service) ChangePassword(ctx context.Context, email, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return errdef.NewBadRequest("New password and confirm password do not match")
	}

	u, err := s.repository.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	u.Password, err = hashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.repository.save(ctx, u)
}

func (s Service) UpdateProfileImage(ctx context.Context, email string, url string) (*model.User, error) {
	u, err := s.repository.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	u.ProfileImageURL = url
	err = s.repository.save(ctx, u)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (s Service) UpdateRole(ctx context.Context, id uint, role model.Role) (*model.User, error) {
	if !model.IsValidRole(role) {
		return nil, errdef.NewBadRequest("invalid role %q", role)
	}

	err := s.repository.updateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	return s.repository.findById(ctx, id)
}

func (s Service) DeleteByEmail(ctx context.Context, email string) error {
	return s.repository.deleteByEmail(ctx, email)
}

// FindOrCreate returns the user with the given email creating it if it doesn't exist. The username
// of a created user is the local part of the email.
func (s Service) FindOrCreate(ctx context.Context, email string, password string) (*model.User, error) {
	u, err := s.repository.findByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errdef.IsNotFound(err) {
		return nil, err
	}

	username, _, _ := strings.Cut(email, "@")
	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	u = &model.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}
	err = s.repository.create(ctx, u)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (s Service) Save(ctx context.Context, u *model.User) error {
	return s.repository.save(ctx, u)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("password hashing failed: %v", err)
	}
	return string(hash), nil
}

func comparePasswords(hashedPassword string, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to compare passwords: %v", err)
	}
	return true, nil
}
