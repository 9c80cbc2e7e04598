package authz

// Scope alcance efectivo del llamador derivado de un token verificado.
// UserID puede llegar vacío (tokens de empleado) y lo completa el resolver de identidad.
type Scope struct {
	Subject    string
	Role       Role
	CompanyID  string
	BranchID   string
	BranchName string
	UserID     string
}

// Input arma la entrada de la compuerta para un recurso de la empresa/sucursal dadas.
func (s Scope) Input(action Action, resourceCompanyID, resourceBranchID string) Input {
	return Input{
		Role:              s.Role,
		CallerCompanyID:   s.CompanyID,
		CallerBranchID:    s.BranchID,
		ResourceCompanyID: resourceCompanyID,
		ResourceBranchID:  resourceBranchID,
		Action:            action,
	}
}
