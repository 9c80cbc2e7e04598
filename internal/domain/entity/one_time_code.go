package entity

import "time"

// OneTimeCode código de un solo uso guardado como hash (bcrypt) con vencimiento.
type OneTimeCode struct {
	Key       string
	CodeHash  string
	Attempts  int
	ExpiresAt time.Time
}
