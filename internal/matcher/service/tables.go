package service

import (
	"fmt"
	"strings"

	"sku-matcher/internal/matcher/model"
)

const inputColumn = "raw_name"

var referenceColumns = []string{"sku", "model", "raw_model"}

// нормализуем имя колонки: trim (включая NBSP и BOM) + нижний регистр
func headerKey(s string) string {
	return strings.ToLower(trimSpace(s))
}

// индекс первой колонки с таким именем, -1 если нет
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if headerKey(h) == name {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// LoadReferenceItems разбирает справочник. Первая строка — шапка с sku, model, raw_model
// в любом порядке и регистре.
func LoadReferenceItems(rows [][]string) ([]model.ReferenceItem, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("reference table is empty: %w", model.ErrSchema)
	}
	header := rows[0]
	cols := make([]int, len(referenceColumns))
	for i, name := range referenceColumns {
		cols[i] = columnIndex(header, name)
		if cols[i] < 0 {
			return nil, fmt.Errorf("reference column %q is missing: %w", name, model.ErrSchema)
		}
	}

	items := make([]model.ReferenceItem, 0, len(rows)-1)
	for _, r := range rows[1:] {
		items = append(items, model.ReferenceItem{
			SKU:      trimSpace(cell(r, cols[0])),
			Model:    trimSpace(cell(r, cols[1])),
			RawModel: trimSpace(cell(r, cols[2])),
		})
	}
	return items, nil
}

// LoadInputRows разбирает входную таблицу: в шапке ровно одна непустая ячейка raw_name.
// Значения берутся из этой колонки как есть, пустые ячейки → "".
func LoadInputRows(rows [][]string) ([]string, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("input table is empty: %w", model.ErrHeader)
	}
	col, nonEmpty := -1, 0
	for i, h := range rows[0] {
		k := headerKey(h)
		if k == "" {
			continue
		}
		nonEmpty++
		if k == inputColumn {
			col = i
		}
	}
	if nonEmpty != 1 || col < 0 {
		return nil, fmt.Errorf("input header must be a single %q cell: %w", inputColumn, model.ErrHeader)
	}

	out := make([]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		out = append(out, cell(r, col))
	}
	return out, nil
}
