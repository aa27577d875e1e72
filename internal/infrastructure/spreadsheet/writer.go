package spreadsheet

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stockcount-api/internal/application/ports"
)

const maxSheetName = 31

var _ ports.SheetWriter = (*Writer)(nil)

// Writer escribe un libro .xlsx de una sola hoja con encabezado en negrita y fila fija.
type Writer struct{}

// NewWriter construye el escritor.
func NewWriter() *Writer { return &Writer{} }

// Write escribe header y rows en la hoja sheet y vuelca el libro en w.
func (wr *Writer) Write(w io.Writer, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet = sheetName(sheet)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("nombrar hoja: %w", err)
	}

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return fmt.Errorf("escribir encabezado: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("escribir fila %d: %w", i+1, err)
		}
	}

	if len(header) > 0 {
		style, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("estilo de encabezado: %w", err)
		}
		last, _ := excelize.ColumnNumberToName(len(header))
		if err := f.SetCellStyle(sheet, "A1", last+"1", style); err != nil {
			return fmt.Errorf("aplicar estilo: %w", err)
		}
		if err := f.SetColWidth(sheet, "A", last, 16); err != nil {
			return fmt.Errorf("ancho de columnas: %w", err)
		}
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return fmt.Errorf("fijar encabezado: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("escribir xlsx: %w", err)
	}
	return nil
}

// sheetName recorta al máximo de Excel.
func sheetName(s string) string {
	if s == "" {
		return "Sheet1"
	}
	if utf8.RuneCountInString(s) <= maxSheetName {
		return s
	}
	return string([]rune(s)[:maxSheetName])
}
