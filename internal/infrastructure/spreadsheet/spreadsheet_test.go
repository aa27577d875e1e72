package spreadsheet

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stockcount-api/internal/domain"
)

func TestRead_CSVUTF8ConBOM(t *testing.T) {
	in := "\xEF\xBB\xBFPART,DESC\np1,Filtro\n,\n p2 ,Bujía\n"
	rows, err := NewReader().Read(strings.NewReader(in), "base.CSV")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "p1", rows[0]["A"])
	assert.Equal(t, "Bujía", rows[1]["B"])
}

func TestRead_CSVLatin1(t *testing.T) {
	in := []byte("A,B\nP1,Buj\xEDa\n")
	rows, err := NewReader().Read(bytes.NewReader(in), "daily.csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bujía", rows[0]["B"])
}

func TestRead_FormatoNoSoportado(t *testing.T) {
	_, err := NewReader().Read(strings.NewReader("x"), "base.pdf")
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestWriteRead_XLSX(t *testing.T) {
	var buf bytes.Buffer
	header := []string{"PART NUM", "QTY", "DATE"}
	rows := [][]any{{"P1", 8.5, "09/03/2026"}, {"P2", 2, "---"}}
	require.NoError(t, NewWriter().Write(&buf, "NOT_SCANNED", header, rows))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"NOT_SCANNED"}, f.GetSheetList())

	read, err := NewReader().Read(bytes.NewReader(buf.Bytes()), "out.xlsx")
	require.NoError(t, err)
	require.Len(t, read, 2)
	assert.Equal(t, "P1", read[0]["A"])
	assert.Equal(t, "8.5", read[0]["B"])
	assert.Equal(t, "---", read[1]["C"])
}

func TestRead_XLSXValoresCrudos(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"PART", "PCT", "PRICE"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"P1", 0.5, 1250.5}))
	pct, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	require.NoError(t, err)
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "B2", "B2", pct))
	require.NoError(t, f.SetCellStyle(sheet, "C2", "C2", money))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := NewReader().Read(&buf, "base.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "0.5", rows[0]["B"])
	assert.Equal(t, "1250.5", rows[0]["C"])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", sheetName(""))
	assert.Len(t, sheetName(strings.Repeat("x", 40)), 31)
}
