package dto

// EmpresaFilter is bound from query string of GET /api/empresas.
type EmpresaFilter struct {
	Search string `form:"search"`
	Activa string `form:"activa"` // "true" | "false" | "" (all)
}

type CrearEmpresaRequest struct {
	RazonSocial string  `json:"razon_social" validate:"required"`
	RUC         *string `json:"ruc"       validate:"omitempty,len=11"`
	Contacto    *string `json:"contacto"`
	Email       *string `json:"email"     validate:"omitempty,email"`
	Telefono    *string `json:"telefono"`
	Direccion   *string `json:"direccion"`
}

type ActualizarEmpresaRequest struct {
	RazonSocial *string `json:"razon_social"`
	RUC         *string `json:"ruc"   validate:"omitempty,len=11"`
	Contacto    *string `json:"contacto"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Telefono    *string `json:"telefono"`
	Direccion   *string `json:"direccion"`
	Activa      *bool   `json:"activa"`
}

type EmpresaResponse struct {
	ID          string  `json:"id"`
	RazonSocial string  `json:"razon_social"`
	RUC         *string `json:"ruc"`
	Contacto    *string `json:"contacto"`
	Email       *string `json:"email"`
	Telefono    *string `json:"telefono"`
	Direccion   *string `json:"direccion"`
	Activa      bool    `json:"activa"`
	CreatedAt   string  `json:"created_at"`
}

type SedeResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Activa bool   `json:"activa"`
}
