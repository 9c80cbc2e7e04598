// Package pdf genera el reporte de asistencia de un empleado en A4.
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa            │  Reporte de asistencia + rango │
//	│  EMPLEADO: nombre + identificador + zona horaria            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Entrada | Salida | Horas | Geocerca E/S      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: días registrados / horas trabajadas               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Workforce-api/internal/application/ports"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ ports.AttendanceReportRenderer = (*AttendanceReportGenerator)(nil)

// AttendanceReportGenerator implementa ports.AttendanceReportRenderer usando Maroto v2.
type AttendanceReportGenerator struct{}

// NewAttendanceReportGenerator construye el generador.
func NewAttendanceReportGenerator() *AttendanceReportGenerator { return &AttendanceReportGenerator{} }

// RenderAttendance genera el PDF y devuelve sus bytes.
func (g *AttendanceReportGenerator) RenderAttendance(_ context.Context, report ports.AttendanceReport) ([]byte, error) {
	loc, err := time.LoadLocation(report.Timezone)
	if err != nil {
		loc = time.UTC
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de asistencia", true).
		WithAuthor(report.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(employeeRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(report.Logs) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin registros en el período.", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}
	for _, r := range tableDetailRows(report.Logs, loc) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report.Logs))
	m.AddRows(footerRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report ports.AttendanceReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(report.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE ASISTENCIA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(report.From+" a "+report.To, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
		),
	)
}

func employeeRow(report ports.AttendanceReport) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("EMPLEADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(report.EmployeeName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Identificador: %s   |   Zona horaria: %s",
				nonEmpty(report.EmployeeKey, "—"),
				nonEmpty(report.Timezone, "UTC"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Entrada", 2, align.Center),
		h("Salida", 2, align.Center),
		h("Horas", 2, align.Right),
		h("Geocerca E.", 2, align.Center),
		h("Geocerca S.", 2, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows una fila por registro; las horas se muestran en la zona del reporte.
func tableDetailRows(logs []*entity.AttendanceLog, loc *time.Location) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	result := make([]core.Row, 0, len(logs))
	for _, l := range logs {
		checkOut, hours, outZone := "—", "—", "—"
		if l.CheckOut != nil {
			checkOut = l.CheckOut.In(loc).Format("15:04")
		}
		if l.WorkedHours != nil {
			hours = l.WorkedHours.StringFixed(2)
		}
		if l.CheckOutGeofence != nil {
			outZone = *l.CheckOutGeofence
		}
		result = append(result, row.New(7).Add(
			cell(l.AttendanceDate.Format(time.DateOnly), 2, align.Left),
			cell(l.CheckIn.In(loc).Format("15:04"), 2, align.Center),
			cell(checkOut, 2, align.Center),
			cell(hours, 2, align.Right),
			cell(l.CheckInGeofence, 2, align.Center),
			cell(outZone, 2, align.Center),
		))
	}
	return result
}

func totalsRow(logs []*entity.AttendanceLog) core.Row {
	days, total := summarize(logs)
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(label("Días registrados:"), label("Horas trabajadas:")),
		col.New(3).Add(
			value(fmt.Sprintf("%d", days)),
			text.New(total.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 5,
			}),
		),
	)
}

// footerRow QR con la llave del reporte para cotejarlo contra el sistema.
func footerRow(report ports.AttendanceReport) core.Row {
	key := fmt.Sprintf("asistencia:%s:%s:%s", report.EmployeeKey, report.From, report.To)
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(key, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Documento generado por el sistema de asistencia.", props.Text{
				Size: 8, Top: 6, Left: 3, Color: colorGray,
			}),
			text.New("Las horas se calculan entre la entrada y la salida de cada registro cerrado.", props.Text{
				Size: 7, Top: 12, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// summarize días distintos con registro y suma de horas de los registros cerrados.
func summarize(logs []*entity.AttendanceLog) (int, decimal.Decimal) {
	days := map[string]struct{}{}
	total := decimal.Zero
	for _, l := range logs {
		days[l.AttendanceDate.Format(time.DateOnly)] = struct{}{}
		if l.WorkedHours != nil {
			total = total.Add(*l.WorkedHours)
		}
	}
	return len(days), total
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
