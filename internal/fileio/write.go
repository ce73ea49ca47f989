package fileio

import (
	"fmt"
	"io"
)

// ContentType для ответа с файлом.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// WriteRows пишет таблицу в нужном формате. .xls на запись не поддерживаем.
func WriteRows(w io.Writer, f Format, header []string, rows [][]string) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, header, rows)
	case FormatCSV:
		return WriteCSV(w, header, rows)
	default:
		return fmt.Errorf("unsupported output format: %s", f)
	}
}
