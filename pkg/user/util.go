package user

import (
	"context"
	"fmt"

	"github.com/delegasi/delegation-manager/pkg/model"
)

type userServiceUtil interface {
	FindOrCreate(ctx context.Context, email, password string) (*model.User, error)
	Save(ctx context.Context, u *model.User) error
}

// CreateAdminUser ensures a user with the given email exists and has the admin role. The password is
// only used if the user is created.
func CreateAdminUser(ctx context.Context, email, password string, userService userServiceUtil) error {
	u, err := userService.FindOrCreate(ctx, email, password)
	if err != nil {
		return fmt.Errorf("error creating admin user: %v", err)
	}

	if u.HasRole(model.RoleAdmin) {
		return nil
	}

	role := model.RoleAdmin
	u.Role = &role
	err = userService.Save(ctx, u)
	if err != nil {
		return fmt.Errorf("error saving admin user: %v", err)
	}

	return nil
}
