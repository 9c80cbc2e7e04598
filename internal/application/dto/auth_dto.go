package dto

// MasterLoginRequest login de operadores de plataforma.
type MasterLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CompanyLoginRequest login de usuarios de un tenant. Username puede ser email,
// teléfono o código de empleado.
type CompanyLoginRequest struct {
	CompanyCode string `json:"company_code" validate:"required,max=50"`
	Username    string `json:"username" validate:"required,max=200"`
	Password    string `json:"password" validate:"required"`
}

// RequestOTPRequest solicitud de código de un solo uso.
type RequestOTPRequest struct {
	CompanyCode string `json:"company_code" validate:"required,max=50"`
	Identifier  string `json:"identifier" validate:"required,max=200"`
}

// VerifyOTPRequest canje del código por tokens.
type VerifyOTPRequest struct {
	CompanyCode string `json:"company_code" validate:"required,max=50"`
	Identifier  string `json:"identifier" validate:"required,max=200"`
	Code        string `json:"code" validate:"required,numeric,min=4,max=10"`
}

// RefreshRequest canje de refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair tokens emitidos.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // segundos
}

// SessionUser datos del usuario autenticado devueltos en el login.
type SessionUser struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	CompanyID  *string `json:"company_id,omitempty"`
	BranchID   *string `json:"branch_id,omitempty"`
	BranchName string  `json:"branch_name,omitempty"`
}

// LoginResponse tokens + usuario + módulos efectivos.
type LoginResponse struct {
	TokenPair
	User    SessionUser      `json:"user"`
	Modules []ModuleResponse `json:"modules"`
}
