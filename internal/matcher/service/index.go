package service

import (
	"sort"
	"strings"
	"unicode/utf8"

	"sku-matcher/internal/matcher/model"
)

// Entry — то, что отдаём по ключу raw_model.
type Entry struct {
	SKU   string
	Model string
}

// Index строится один раз на загрузку справочника и дальше только читается.
type Index struct {
	skuByLengthDesc []string
	modelBySkuLower map[string]string
	byRawModel      map[string]Entry // ключ: FoldWhitespace(raw_model)
	byAlnum         map[string]Entry // ключ: FoldToAlnum(raw_model)
	items           int
}

func BuildIndex(items []model.ReferenceItem) *Index {
	idx := &Index{
		skuByLengthDesc: make([]string, 0, len(items)),
		modelBySkuLower: make(map[string]string, len(items)),
		byRawModel:      make(map[string]Entry, len(items)),
		byAlnum:         make(map[string]Entry, len(items)),
		items:           len(items),
	}

	for _, it := range items {
		if it.SKU != "" {
			idx.skuByLengthDesc = append(idx.skuByLengthDesc, it.SKU)
			// дубли по sku: побеждает последняя строка
			idx.modelBySkuLower[strings.ToLower(it.SKU)] = it.Model
		}

		e := Entry{SKU: it.SKU, Model: it.Model}
		insertIfAbsent(idx.byRawModel, FoldWhitespace(it.RawModel), e)
		insertIfAbsent(idx.byAlnum, FoldToAlnum(it.RawModel), e)
	}

	// длинные sku раньше коротких; при равной длине порядок справочника
	sort.SliceStable(idx.skuByLengthDesc, func(i, j int) bool {
		return utf8.RuneCountInString(idx.skuByLengthDesc[i]) > utf8.RuneCountInString(idx.skuByLengthDesc[j])
	})

	return idx
}

// insertIfAbsent: первая запись по ключу побеждает, пустые ключи не кладём.
func insertIfAbsent(m map[string]Entry, key string, e Entry) bool {
	if key == "" {
		return false
	}
	if _, ok := m[key]; ok {
		return false
	}
	m[key] = e
	return true
}

// SKUs — порядок, в котором проход 1 перебирает артикулы.
func (idx *Index) SKUs() []string {
	out := make([]string, len(idx.skuByLengthDesc))
	copy(out, idx.skuByLengthDesc)
	return out
}

func (idx *Index) ModelForSKU(sku string) (string, bool) {
	m, ok := idx.modelBySkuLower[strings.ToLower(sku)]
	return m, ok
}

func (idx *Index) LookupRawModel(key string) (Entry, bool) {
	e, ok := idx.byRawModel[key]
	return e, ok
}

func (idx *Index) LookupAlnum(key string) (Entry, bool) {
	e, ok := idx.byAlnum[key]
	return e, ok
}

// Len — число строк справочника, из которых построен индекс.
func (idx *Index) Len() int { return idx.items }
