package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

func TestMask(t *testing.T) {
	assert.Equal(t, "+5*********67", Mask("+573001234567"))
	assert.Equal(t, "***", Mask("abc"))
	assert.Equal(t, "", Mask(""))
}

func TestSendCode_OcultaCodigoEnProduccion(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(logger.NewWriter(&buf), false)
	require.NoError(t, s.SendCode(context.Background(), &entity.User{ID: "u1"}, "ana@acme.co", "123456"))
	assert.NotContains(t, buf.String(), "123456")
	assert.Contains(t, buf.String(), `"user_id":"u1"`)
}

func TestSendCode_MuestraCodigoEnDesarrollo(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(logger.NewWriter(&buf), true)
	require.NoError(t, s.SendCode(context.Background(), &entity.User{ID: "u1"}, "ana@acme.co", "654321"))
	assert.Contains(t, buf.String(), `"code":"654321"`)
}
