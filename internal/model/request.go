package model

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password" validate:"required"`
}

// LoginIdentifier prefers the explicit identifier, then username, then email.
func (r LoginRequest) LoginIdentifier() string {
	switch {
	case r.Identifier != "":
		return r.Identifier
	case r.Username != "":
		return r.Username
	default:
		return r.Email
	}
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type UpdateAccountRequest struct {
	FirstName string `json:"firstName" validate:"omitempty,max=100"`
	LastName  string `json:"lastName" validate:"omitempty,max=100"`
	Username  string `json:"username" validate:"omitempty,min=3,max=50"`
}

type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type CreateCategoryRequest struct {
	CategoryName string `json:"categoryName" validate:"required,max=100"`
}

type EditPostRequest struct {
	Content  string `json:"content" validate:"required"`
	Category string `json:"category"`
}
