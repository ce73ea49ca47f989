package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"sku-matcher/internal/matcher/model"
)

// pass — один проход сопоставления. ok=false → строка остаётся нерешённой.
type pass func(raw string, idx *Index) (model.Outcome, bool)

// порядок важен: sku -> raw_model -> raw_model без пунктуации
var passes = []pass{matchSKU, matchRawModel, matchRawModelAlnum}

// Resolve прогоняет строку через проходы до первого совпадения.
// Попадание в запись справочника без sku строку не решает: следующие проходы
// всё равно идут, а модель из такой записи остаётся, только если дальше пусто.
func Resolve(raw string, idx *Index) model.Outcome {
	partial := model.Unresolved()
	if idx == nil {
		return partial
	}
	for _, p := range passes {
		out, ok := p(raw, idx)
		if !ok {
			continue
		}
		if out.SKU != model.NotFound {
			return out
		}
		partial = model.Outcome{SKU: out.SKU, Model: out.Model, Note: out.Note, Pass: model.PassNone}
	}
	return partial
}

// Match — основная точка входа. Одна строка результата на каждую входную, порядок сохраняется.
func Match(rows []string, idx *Index) []model.ResultRow {
	outcomes := make([]model.Outcome, len(rows))
	for i, raw := range rows {
		outcomes[i] = Resolve(raw, idx)
	}
	return Assemble(rows, outcomes)
}

// MatchConcurrent делает то же, что Match, но режет вход на куски и матчит их параллельно.
// Каждый результат пишется в свою позицию, поэтому порядок совпадает с Match.
func MatchConcurrent(ctx context.Context, rows []string, idx *Index, workers int) ([]model.ResultRow, []model.Outcome, error) {
	outcomes := make([]model.Outcome, len(rows))
	if workers <= 1 || len(rows) < 2*minChunk {
		for i, raw := range rows {
			outcomes[i] = Resolve(raw, idx)
		}
		return Assemble(rows, outcomes), outcomes, nil
	}

	chunk := (len(rows) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(rows); start += chunk {
		lo, hi := start, min(start+chunk, len(rows))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if i%ctxCheckEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				outcomes[i] = Resolve(rows[i], idx)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return Assemble(rows, outcomes), outcomes, nil
}

const (
	minChunk      = 256
	ctxCheckEvery = 512
)

// Assemble — чистая проекция исходов в строки результата.
func Assemble(rows []string, outcomes []model.Outcome) []model.ResultRow {
	out := make([]model.ResultRow, len(rows))
	for i, raw := range rows {
		o := model.Unresolved()
		if i < len(outcomes) {
			o = outcomes[i]
		}
		out[i] = model.ResultRow{
			RawName: raw,
			SKU:     o.SKU,
			Model:   o.Model,
			Note:    o.Note,
		}
	}
	return out
}

// Summarize считает, сколько строк решил каждый проход.
func Summarize(outcomes []model.Outcome) model.Stats {
	st := model.Stats{Rows: len(outcomes)}
	for _, o := range outcomes {
		switch o.Pass {
		case model.PassSKU:
			st.BySKU++
		case model.PassRawModel:
			st.ByRawModel++
		case model.PassRawModelAlnum:
			st.ByAlnum++
		default:
			st.NotFoundCount++
		}
	}
	return st
}

// (1) Артикул как подстрока, без цифр вплотную слева и справа
func matchSKU(raw string, idx *Index) (model.Outcome, bool) {
	lower := strings.ToLower(raw)
	for _, sku := range idx.skuByLengthDesc {
		if !hasDigitBoundaryMatch(lower, strings.ToLower(sku)) {
			continue
		}
		m, _ := idx.ModelForSKU(sku)
		return model.Outcome{
			Found: true,
			SKU:   sku,
			Model: orNotFound(m),
			Pass:  model.PassSKU,
		}, true
	}
	return model.Outcome{}, false
}

// (2) Точное совпадение raw_model после удаления пробелов
func matchRawModel(raw string, idx *Index) (model.Outcome, bool) {
	e, ok := idx.LookupRawModel(FoldWhitespace(raw))
	if !ok {
		return model.Outcome{}, false
	}
	return model.Outcome{
		Found: true,
		SKU:   orNotFound(e.SKU),
		Model: orNotFound(e.Model),
		Pass:  model.PassRawModel,
	}, true
}

// (3) То же, но без пунктуации; помечаем для ручной проверки
func matchRawModelAlnum(raw string, idx *Index) (model.Outcome, bool) {
	e, ok := idx.LookupAlnum(FoldToAlnum(raw))
	if !ok {
		return model.Outcome{}, false
	}
	return model.Outcome{
		Found: true,
		SKU:   orNotFound(e.SKU),
		Model: orNotFound(e.Model),
		Note:  model.NoteAlnumHit,
		Pass:  model.PassRawModelAlnum,
	}, true
}

// hasDigitBoundaryMatch: needle входит в haystack хотя бы в одной позиции,
// где соседние символы не десятичные цифры. Края строки считаются не-цифрой.
// Обе строки уже в нижнем регистре.
func hasDigitBoundaryMatch(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	from := 0
	for from <= len(haystack)-len(needle) {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return false
		}
		pos := from + i
		before, _ := utf8.DecodeLastRuneInString(haystack[:pos])
		after, _ := utf8.DecodeRuneInString(haystack[pos+len(needle):])
		if !isDigit(before) && !isDigit(after) {
			return true
		}
		// вхождения могут перекрываться: сдвигаемся на один символ
		_, size := utf8.DecodeRuneInString(haystack[pos:])
		from = pos + size
	}
	return false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func orNotFound(s string) string {
	if s == "" {
		return model.NotFound
	}
	return s
}
