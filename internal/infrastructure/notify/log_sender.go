// Package notify entrega los códigos de un solo uso. El canal real (SMS, email)
// es intercambiable detrás de ports.CodeSender; aquí vive el que escribe al log.
package notify

import (
	"context"
	"strings"

	"github.com/jhoicas/Workforce-api/internal/application/ports"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

var _ ports.CodeSender = (*LogSender)(nil)

// LogSender escribe el código en el log. Con revealCode=false (producción) solo
// registra que hubo un envío, con el destino enmascarado.
type LogSender struct {
	log        *logger.Logger
	revealCode bool
}

// NewLogSender construye el sender.
func NewLogSender(log *logger.Logger, revealCode bool) *LogSender {
	return &LogSender{log: log.Component("notify"), revealCode: revealCode}
}

func (s *LogSender) SendCode(_ context.Context, user *entity.User, identifier, code string) error {
	ev := s.log.Info().
		Str("user_id", user.ID).
		Str("company_id", user.Company()).
		Str("to", Mask(identifier))
	if s.revealCode {
		ev = ev.Str("code", code)
	}
	ev.Msg("código de un solo uso enviado")
	return nil
}

// Mask deja visibles los dos primeros y los dos últimos caracteres.
func Mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
