package user

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/delegasi/delegation-manager/internal/handler"
	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/delegasi/delegation-manager/pkg/upload"
	"github.com/gin-gonic/gin"
)

func NewHandler(service *Service, uploader uploader) Handler {
	return Handler{
		service:  service,
		uploader: uploader,
	}
}

type uploader interface {
	Upload(ctx context.Context, namespace upload.Namespace, field string, file *multipart.FileHeader) (model.Attachment, error)
}

type Handler struct {
	service  *Service
	uploader uploader
}

type RegisterRequest struct {
	Username     string `json:"username" form:"username" binding:"required"`
	Email        string `json:"email" form:"email" binding:"required,email"`
	Password     string `json:"password" form:"password" binding:"required"`
	DivisionName string `json:"divisionName" form:"divisionName"`
}

// Register user
func (h Handler) Register(c *gin.Context) {
	// swagger:route POST /user/register registerUser
	//
	// Register user
	//
	// Register a user as member of the division named divisionName. Users are registered without a role.
	//
	// responses:
	//   200: User
	//   400: Error
	//   404: Error
	//   415: Error
	var request RegisterRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	u, err := h.service.Register(c.Request.Context(), RegisterParams{
		Username:     request.Username,
		Email:        request.Email,
		Password:     request.Password,
		DivisionName: request.DivisionName,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "User added successfully", u)
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginResponse is returned on a successful login
// swagger:model
type LoginResponse struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     *model.Role `json:"role"`
}

// Login user
func (h Handler) Login(c *gin.Context) {
	// swagger:route POST /user/login loginUser
	//
	// Login user
	//
	// responses:
	//   200: LoginResponse
	//   400: Error
	//   404: Error
	//   415: Error
	var request LoginRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	u, err := h.service.SignIn(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Login successful", LoginResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	})
}

// Profile is the public view of a user
// swagger:model
type Profile struct {
	Username        string      `json:"username"`
	Email           string      `json:"email"`
	Description     string      `json:"description"`
	ProfileImageURL string      `json:"profileImageUrl"`
	Division        *string     `json:"division"`
	Role            *model.Role `json:"role"`
}

func newProfile(u *model.User) Profile {
	var division *string
	if u.Division != nil {
		division = &u.Division.Name
	}
	return Profile{
		Username:        u.Username,
		Email:           u.Email,
		Description:     u.Description,
		ProfileImageURL: u.ProfileImageURL,
		Division:        division,
		Role:            u.Role,
	}
}

// Profile returns the profile of a user
func (h Handler) Profile(c *gin.Context) {
	// swagger:route GET /user/profile userProfile
	//
	// User profile
	//
	// Find the profile of the user with the given email
	//
	// responses:
	//   200: Profile
	//   400: Error
	//   404: Error
	email := c.Query("email")
	if email == "" {
		_ = c.Error(errdef.NewBadRequest("Email is required"))
		return
	}

	u, err := h.service.FindByEmail(c.Request.Context(), email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "User profile fetched successfully", newProfile(u))
}

type UpdateProfileRequest struct {
	Email       string  `json:"email" form:"email" binding:"required"`
	NewEmail    string  `json:"newEmail" form:"newEmail" binding:"omitempty,email"`
	Username    string  `json:"username" form:"username"`
	Description *string `json:"description" form:"description"`
}

// UpdateProfile of a user
func (h Handler) UpdateProfile(c *gin.Context) {
	// swagger:route PUT /user/profile updateUserProfile
	//
	// Update user profile
	//
	// responses:
	//   200: Profile
	//   400: Error
	//   404: Error
	//   415: Error
	var request UpdateProfileRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), ProfileParams{
		Email:       request.Email,
		NewEmail:    request.NewEmail,
		Username:    request.Username,
		Description: request.Description,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "User updated successfully", newProfile(u))
}

type ChangePasswordRequest struct {
	Email           string `json:"email" form:"email" binding:"required"`
	NewPassword     string `json:"newPassword" form:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"`
}

// ChangePassword of a user
func (h Handler) ChangePassword(c *gin.Context) {
	// swagger:route PUT /user/password changePassword
	//
	// Change password
	//
	// responses:
	//   200: Envelope
	//   400: Error
	//   404: Error
	//   415: Error
	var request ChangePasswordRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	err := h.service.ChangePassword(c.Request.Context(), request.Email, request.NewPassword, request.ConfirmPassword)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Password updated successfully", nil)
}

// UpdateProfileImage of a user
func (h Handler) UpdateProfileImage(c *gin.Context) {
	// swagger:route PUT /user/profile/image updateProfileImage
	//
	// Update profile image
	//
	// Upload the image sent as the multipart part profileImage and make it the profile image of the user with the given email
	//
	// responses:
	//   200: Profile
	//   400: Error
	//   404: Error
	email := c.PostForm("email")
	if email == "" {
		_ = c.Error(errdef.NewBadRequest("Email is required"))
		return
	}

	ctx := c.Request.Context()
	_, err := h.service.FindByEmail(ctx, email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	file, _ := c.FormFile("profileImage")
	image, err := h.uploader.Upload(ctx, upload.NamespaceProfile, "profileImage", file)
	if err != nil {
		_ = c.Error(err)
		return
	}

	u, err := h.service.UpdateProfileImage(ctx, email, image.URL)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Profile image updated successfully", newProfile(u))
}

// FindAll users
func (h Handler) FindAll(c *gin.Context) {
	// swagger:route GET /user/list findAllUsers
	//
	// Find all users
	//
	// responses:
	//   200: []User
	users, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Users fetched successfully", users)
}

// FindByDivision finds the members of a division
func (h Handler) FindByDivision(c *gin.Context) {
	// swagger:route GET /user/by-division findUsersByDivision
	//
	// Find users by division
	//
	// responses:
	//   200: []User
	//   400: Error
	//   404: Error
	divisionId, ok := handler.GetQueryParameter(c, "divisionId")
	if !ok {
		return
	}

	users, err := h.service.FindByDivision(c.Request.Context(), divisionId)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Users fetched successfully", users)
}

// FindById user
func (h Handler) FindById(c *gin.Context) {
	// swagger:route GET /user/{id} findUserById
	//
	// Find user by id
	//
	// responses:
	//   200: User
	//   400: Error
	//   404: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	u, err := h.service.FindById(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "User fetched successfully", u)
}

type UpdateRoleRequest struct {
	UserID uint   `json:"userId" form:"userId" binding:"required"`
	Role   string `json:"role" form:"role" binding:"required,oneOf=admin delegation_verificator delegation_handler"`
}

// UpdateRole of the user given in the request body
func (h Handler) UpdateRole(c *gin.Context) {
	// swagger:route PUT /user/update-role updateUserRole
	//
	// Update user role
	//
	// responses:
	//   200: User
	//   400: Error
	//   404: Error
	//   415: Error
	var request UpdateRoleRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	u, err := h.service.UpdateRole(c.Request.Context(), request.UserID, model.Role(request.Role))
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Role updated successfully", u)
}

type RoleRequest struct {
	Role string `json:"role" form:"role" binding:"required,oneOf=admin delegation_verificator delegation_handler"`
}

// Update the role of the user given in the path
func (h Handler) Update(c *gin.Context) {
	// swagger:route PUT /user/{id} updateUser
	//
	// Update user
	//
	// responses:
	//   200: User
	//   400: Error
	//   404: Error
	//   415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request RoleRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	u, err := h.service.UpdateRole(c.Request.Context(), id, model.Role(request.Role))
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "User updated successfully", u)
}

type DeleteRequest struct {
	Email string `json:"email" form:"email" binding:"required"`
}

// Delete user by email
func (h Handler) Delete(c *gin.Context) {
	// swagger:route DELETE /user deleteUser
	//
	// Delete user
	//
	// responses:
	//   200: Envelope
	//   400: Error
	//   404: Error
	//   415: Error
	var request DeleteRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	err := h.service.DeleteByEmail(c.Request.Context(), request.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "User deleted successfully", nil)
}
