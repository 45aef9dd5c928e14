package models

const (
	RoleSales = "SALES"
	RoleCall  = "CALL"
	RoleAdmin = "ADMIN"
)

// LoginInput is the static-credential login body.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// StaffToken is returned by the login endpoints.
type StaffToken struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	ExpiresIn int64  `json:"expiresIn"`
}
