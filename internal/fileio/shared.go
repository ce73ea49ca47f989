package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Table — первый лист файла как есть: строка 0 — шапка.
type Table = [][]string

// Format — поддерживаемые форматы файлов.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

// FormatOf определяет формат по расширению имени файла.
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported file: %s", filename)
	}
}

// ReadAnyRows — выберет парсер по расширению и вернёт первый лист построчно.
func ReadAnyRows(r io.Reader, filename string) (Table, error) {
	f, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}
	var rows Table
	switch f {
	case FormatXLSX:
		rows, err = readXLSX(r)
	case FormatXLS:
		rows, err = readXLS(r)
	case FormatCSV:
		rows, err = readCSV(r)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return trimTrailingEmpty(rows), nil
}

// пустые строки в хвосте листа не считаем данными; в середине — оставляем
func trimTrailingEmpty(rows Table) Table {
	n := len(rows)
	for n > 0 && isEmptyRow(rows[n-1]) {
		n--
	}
	return rows[:n]
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
