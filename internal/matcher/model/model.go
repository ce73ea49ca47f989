package model

import "errors"

const (
	NotFound     = "not found"
	NoteAlnumHit = "check: matched after removing punctuation"
)

// Коды ошибок, которые видит клиент.
const (
	CodeBadHeader   = "BAD_HEADER"
	CodeBadFormat   = "BAD_FORMAT"
	CodeBadSchema   = "REF_BAD_SCHEMA"
	CodeNoFile      = "NO_FILE"
	CodeRefMissing  = "REF_MISSING"
	CodeServerError = "SERVER_ERROR"
)

var (
	// ErrHeader: шапка входной таблицы не равна ровно одной ячейке raw_name.
	ErrHeader = errors.New(CodeBadHeader)
	// ErrSchema: справочник пуст или в шапке нет sku/model/raw_model.
	ErrSchema = errors.New(CodeBadSchema)
)

// ReferenceItem — строка справочника.
type ReferenceItem struct {
	SKU      string `json:"sku"`
	Model    string `json:"model"`
	RawModel string `json:"raw_model"`
}

// Pass — какой проход дал совпадение (для логов и статистики).
type Pass string

const (
	PassNone          Pass = "none"
	PassSKU           Pass = "sku"
	PassRawModel      Pass = "raw_model"
	PassRawModelAlnum Pass = "raw_model_alnum"
)

// Outcome — результат сопоставления одной строки.
type Outcome struct {
	Found bool
	SKU   string
	Model string
	Note  string
	Pass  Pass
}

func Unresolved() Outcome {
	return Outcome{SKU: NotFound, Model: NotFound, Pass: PassNone}
}

type ResultRow struct {
	RawName string `json:"raw_name"`
	SKU     string `json:"sku"`
	Model   string `json:"model"`
	Note    string `json:"note"`
}

// OutputHeader — порядок колонок выходной таблицы.
var OutputHeader = []string{"raw_name", "sku", "model", "note"}

func (r ResultRow) Cells() []string {
	return []string{r.RawName, r.SKU, r.Model, r.Note}
}

// Stats — сводка прогона по проходам.
type Stats struct {
	Rows          int `json:"rows"`
	BySKU         int `json:"by_sku"`
	ByRawModel    int `json:"by_raw_model"`
	ByAlnum       int `json:"by_raw_model_alnum"`
	NotFoundCount int `json:"not_found"`
}
