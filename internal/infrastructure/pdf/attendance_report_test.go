package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Workforce-api/internal/application/ports"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
)

func closedLog(day string, hours string) *entity.AttendanceLog {
	d, _ := time.Parse(time.DateOnly, day)
	in := d.Add(13 * time.Hour)
	out := in.Add(8 * time.Hour)
	h := decimal.RequireFromString(hours)
	geo := entity.GeofenceInside
	return &entity.AttendanceLog{
		AttendanceDate: d, CheckIn: in, CheckOut: &out,
		CheckInGeofence: entity.GeofenceInside, CheckOutGeofence: &geo, WorkedHours: &h,
	}
}

func TestRenderAttendance_GeneraPDF(t *testing.T) {
	report := ports.AttendanceReport{
		CompanyName:  "Acme",
		EmployeeName: "Ana Pérez",
		EmployeeKey:  "emp-1",
		From:         "2026-03-01",
		To:           "2026-03-31",
		Timezone:     "America/Bogota",
		Logs:         []*entity.AttendanceLog{closedLog("2026-03-02", "8.00"), closedLog("2026-03-03", "7.50")},
	}
	doc, err := NewAttendanceReportGenerator().RenderAttendance(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestRenderAttendance_SinRegistros(t *testing.T) {
	doc, err := NewAttendanceReportGenerator().RenderAttendance(context.Background(), ports.AttendanceReport{CompanyName: "Acme", Timezone: "no/valida"})
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestSummarize(t *testing.T) {
	open := &entity.AttendanceLog{AttendanceDate: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)}
	days, total := summarize([]*entity.AttendanceLog{closedLog("2026-03-02", "8.00"), closedLog("2026-03-03", "7.50"), open})
	assert.Equal(t, 2, days)
	assert.Equal(t, "15.50", total.StringFixed(2))
}
