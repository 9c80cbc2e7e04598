// Package identifier normaliza las llaves con las que un usuario se identifica
// (email, teléfono o código de empleado). Se normaliza al escribir para que las
// búsquedas sean igualdad indexada y no case-folding en la consulta.
package identifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Kind tipo de identificador.
type Kind string

const (
	KindEmail        Kind = "email"
	KindPhone        Kind = "phone"
	KindEmployeeCode Kind = "employee_code"
)

var folder = cases.Fold()

// Normalize recorta espacios y aplica case folding Unicode.
// Los teléfonos conservan solo dígitos y un '+' inicial.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if Detect(s) == KindPhone {
		return normalizePhone(s)
	}
	return folder.String(s)
}

// Detect clasifica el identificador. Contiene '@' → email; solo dígitos y
// separadores telefónicos (con al menos 7 dígitos) → teléfono; resto → código de empleado.
func Detect(s string) Kind {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "@") {
		return KindEmail
	}
	digits := 0
	for i, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return KindEmployeeCode
		}
	}
	if digits >= 7 {
		return KindPhone
	}
	return KindEmployeeCode
}

func normalizePhone(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsDigit(r) || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePtr aplica Normalize a un valor opcional; vacío → nil.
func NormalizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	n := Normalize(*s)
	if n == "" {
		return nil
	}
	return &n
}
