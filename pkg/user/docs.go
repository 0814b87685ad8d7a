package user

// swagger:parameters registerUser
type _ struct {
	// Register request body parameter
	// in: body
	// required: true
	Body RegisterRequest
}

// swagger:parameters loginUser
type _ struct {
	// Login request body parameter
	// in: body
	// required: true
	Body LoginRequest
}

// swagger:parameters userProfile
type _ struct {
	// in: query
	// required: true
	Email string `json:"email"`
}

// swagger:parameters updateUserProfile
type _ struct {
	// in: body
	// required: true
	Body UpdateProfileRequest
}

// swagger:parameters changePassword
type _ struct {
	// in: body
	// required: true
	Body ChangePasswordRequest
}

// swagger:parameters findUsersByDivision
type _ struct {
	// in: query
	// required: true
	DivisionID uint `json:"divisionId"`
}

// swagger:parameters findUserById updateUser
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`
}

// swagger:parameters updateUserRole
type _ struct {
	// in: body
	// required: true
	Body UpdateRoleRequest
}

// swagger:parameters deleteUser
type _ struct {
	// in: body
	// required: true
	Body DeleteRequest
}
