// Package spreadsheet lee las planillas de carga de maestros y escribe las exportaciones.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stockcount-api/internal/application/ports"
	"github.com/jhoicas/stockcount-api/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var _ ports.SheetReader = (*Reader)(nil)

// Reader lee .xlsx (primera hoja) y .csv. La primera fila es encabezado y se omite.
type Reader struct{}

// NewReader construye el lector.
func NewReader() *Reader { return &Reader{} }

// Read devuelve las filas de datos indexadas por letra de columna. Las filas totalmente vacías se omiten.
func (r *Reader) Read(in io.Reader, filename string) ([]ports.SheetRow, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		records, err = readXLSX(in)
	case ".csv":
		records, err = readCSV(in)
	default:
		return nil, domain.NewValidationError("file", fmt.Sprintf("formato no soportado: %q (use .xlsx o .csv)", filename))
	}
	if err != nil {
		return nil, domain.NewValidationError("file", err.Error())
	}
	return toRows(records), nil
}

func readXLSX(in io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(in)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el libro no tiene hojas")
	}
	// valores crudos: un número con formato de porcentaje o de moneda llega sin símbolos.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheets[0], err)
	}
	return rows, nil
}

// readCSV acepta UTF-8 (con o sin BOM) o ISO-8859-1.
func readCSV(in io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv inválido: %w", err)
	}
	return records, nil
}

func toRows(records [][]string) []ports.SheetRow {
	if len(records) <= 1 {
		return []ports.SheetRow{}
	}
	out := make([]ports.SheetRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(ports.SheetRow, len(rec))
		blank := true
		for i, cell := range rec {
			name, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				break
			}
			row[name] = cell
			if strings.TrimSpace(cell) != "" {
				blank = false
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}
