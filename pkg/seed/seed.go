// Package seed populates a database with divisions and users described in a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/delegasi/delegation-manager/pkg/user"
	"gopkg.in/yaml.v3"
)

// File is the content of a seed file.
//
//	divisions:
//	  - Finance
//	users:
//	  - username: alice
//	    email: alice@example.org
//	    password: secret
//	    division: Finance
//	    role: delegation_verificator
type File struct {
	Divisions []string `yaml:"divisions"`
	Users     []User   `yaml:"users"`
}

type User struct {
	Username string     `yaml:"username"`
	Email    string     `yaml:"email"`
	Password string     `yaml:"password"`
	Division string     `yaml:"division"`
	Role     model.Role `yaml:"role"`
}

// Load decodes a seed file. Unknown keys are rejected.
func Load(r io.Reader) (*File, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file File
	err := decoder.Decode(&file)
	if errors.Is(err, io.EOF) {
		return &file, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %v", err)
	}

	for i, u := range file.Users {
		if u.Email == "" || u.Username == "" || u.Password == "" {
			return nil, fmt.Errorf("user %d: username, email and password are required", i)
		}
		if u.Role != "" && !model.IsValidRole(u.Role) {
			return nil, fmt.Errorf("user %q: invalid role %q", u.Email, u.Role)
		}
	}

	return &file, nil
}

type divisionService interface {
	FindOrCreate(ctx context.Context, name string) (*model.Division, error)
}

type userService interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Register(ctx context.Context, params user.RegisterParams) (*model.User, error)
	UpdateRole(ctx context.Context, id uint, role model.Role) (*model.User, error)
}

// Summary counts what a seed run did.
type Summary struct {
	Divisions    int
	UsersCreated int
	UsersSkipped int
}

// Apply creates the divisions and users of the file. Existing users are left untouched so a file
// can be applied repeatedly. Divisions users refer to are created as well.
func Apply(ctx context.Context, file *File, divisionService divisionService, userService userService) (Summary, error) {
	var summary Summary

	divisions := make(map[string]bool)
	ensure := func(name string) error {
		if name == "" || divisions[name] {
			return nil
		}
		if _, err := divisionService.FindOrCreate(ctx, name); err != nil {
			return fmt.Errorf("failed to seed division %q: %v", name, err)
		}
		divisions[name] = true
		summary.Divisions++
		return nil
	}

	for _, name := range file.Divisions {
		if err := ensure(name); err != nil {
			return summary, err
		}
	}

	for _, u := range file.Users {
		_, err := userService.FindByEmail(ctx, u.Email)
		if err == nil {
			summary.UsersSkipped++
			continue
		}
		if !errdef.IsNotFound(err) {
			return summary, err
		}

		if err := ensure(u.Division); err != nil {
			return summary, err
		}

		created, err := userService.Register(ctx, user.RegisterParams{
			Username:     u.Username,
			Email:        u.Email,
			Password:     u.Password,
			DivisionName: u.Division,
		})
		if err != nil {
			return summary, fmt.Errorf("failed to seed user %q: %v", u.Email, err)
		}

		if u.Role != "" {
			_, err := userService.UpdateRole(ctx, created.ID, u.Role)
			if err != nil {
				return summary, fmt.Errorf("failed to set role of user %q: %v", u.Email, err)
			}
		}

		summary.UsersCreated++
	}

	return summary, nil
}
