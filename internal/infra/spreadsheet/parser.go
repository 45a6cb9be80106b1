package spreadsheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var (
	ErrEmptyFile     = errors.New("file has no header row")
	ErrLegacyExcel   = errors.New("legacy binary .xls is not supported, save the sheet as .xlsx or .csv")
	ErrUnknownFormat = errors.New("unsupported file type")
)

// Parser lê CSV e XLSX e devolve as linhas de dados com o cabeçalho da planilha.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(filename string, r io.Reader) ([]entity.ImportRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	var records [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(data)
	case ".xlsx", ".xls":
		records, err = readExcel(data)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, err
	}
	return buildRows(records)
}

func readCSV(data []byte) ([][]string, error) {
	br := stripUTF8BOM(bufio.NewReader(bytes.NewReader(data)))
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

func readExcel(data []byte) ([][]string, error) {
	if isOLE2(data) {
		return nil, ErrLegacyExcel
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func isOLE2(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("application/x-ole-storage") {
			return true
		}
	}
	return false
}

// buildRows usa a primeira linha não vazia como cabeçalho. Linhas totalmente
// vazias são descartadas e o índice conta só as linhas de dados emitidas.
func buildRows(records [][]string) ([]entity.ImportRow, error) {
	start := -1
	for i, rec := range records {
		if !isEmptyRecord(rec) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrEmptyFile
	}

	headers := dedupHeaders(records[start])
	rows := make([]entity.ImportRow, 0, len(records)-start-1)
	idx := 0
	for _, rec := range records[start+1:] {
		if len(rec) == 0 {
			continue
		}
		idx++
		cells := make([]entity.Cell, 0, len(headers))
		for j, h := range headers {
			if j >= len(rec) {
				break
			}
			cells = append(cells, entity.Cell{Header: h, Value: rec[j]})
		}
		rows = append(rows, entity.ImportRow{Index: idx, Cells: cells})
	}
	return rows, nil
}

func isEmptyRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func dedupHeaders(raw []string) []string {
	seen := make(map[string]int, len(raw))
	out := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			out[i] = h + "_" + strconv.Itoa(n+1)
			continue
		}
		seen[h] = 0
		out[i] = h
	}
	return out
}
