package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"sku-matcher/internal/catalog"
	"sku-matcher/internal/fileio"
	"sku-matcher/internal/matcher/model"
)

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type matchResponse struct {
	OK    bool              `json:"ok"`
	Rows  []model.ResultRow `json:"rows"`
	Stats model.Stats       `json:"stats"`
}

// errorCode: ошибка → код для клиента + http-статус.
// Всё, что не распознали, — SERVER_ERROR.
func errorCode(err error) (string, int) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, model.ErrHeader):
		return model.CodeBadHeader, http.StatusBadRequest
	case errors.Is(err, model.ErrSchema):
		return model.CodeBadSchema, http.StatusBadRequest
	case errors.Is(err, errBadFormat):
		return model.CodeBadFormat, http.StatusBadRequest
	case errors.Is(err, errNoFile):
		return model.CodeNoFile, http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return model.CodeNoFile, http.StatusRequestEntityTooLarge
	case errors.Is(err, catalog.ErrMissing):
		return model.CodeRefMissing, http.StatusInternalServerError
	default:
		return model.CodeServerError, http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) (string, int) {
	code, status := errorCode(err)
	_ = writeJSON(w, status, errorResponse{OK: false, Error: code})
	return code, status
}

// формат ответа: json (по умолчанию) | xlsx | csv
func outputFormat(r *http.Request) (fileio.Format, bool) {
	switch strings.ToLower(strings.TrimSpace(r.FormValue("format"))) {
	case "", "json":
		return "", true
	case "xlsx":
		return fileio.FormatXLSX, true
	case "csv":
		return fileio.FormatCSV, true
	default:
		return "", false
	}
}

func toCells(rows []model.ResultRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Cells()
	}
	return out
}
