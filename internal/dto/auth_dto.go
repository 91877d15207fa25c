package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegisterRequest struct {
	Username       string  `json:"username"        validate:"required,min=3"`
	Email          string  `json:"email"           validate:"required,email"`
	Password       string  `json:"password"        validate:"required,min=8"`
	NombreCompleto string  `json:"nombre_completo" validate:"required"`
	Telefono       *string `json:"telefono"`
}

type CrearUsuarioRequest struct {
	Username       string  `json:"username"        validate:"required,min=3"`
	Email          string  `json:"email"           validate:"required,email"`
	Password       string  `json:"password"        validate:"required,min=8"`
	NombreCompleto string  `json:"nombre_completo" validate:"required"`
	Telefono       *string `json:"telefono"`
	Rol            string  `json:"rol" validate:"required,oneof=manager vendedor cliente"`
}

type ActualizarUsuarioRequest struct {
	Email          *string `json:"email"    validate:"omitempty,email"`
	Password       *string `json:"password" validate:"omitempty,min=8"`
	NombreCompleto *string `json:"nombre_completo"`
	Telefono       *string `json:"telefono"`
	Rol            *string `json:"rol" validate:"omitempty,oneof=manager vendedor cliente"`
}

type UsuarioResponse struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	NombreCompleto string  `json:"nombre_completo"`
	Telefono       *string `json:"telefono"`
	Rol            string  `json:"rol"`
	Activo         bool    `json:"activo"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	User         UsuarioResponse `json:"user"`
}
