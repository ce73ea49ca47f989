package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"sku-matcher/internal/catalog"
	"sku-matcher/internal/config"
	"sku-matcher/internal/fileio"
	"sku-matcher/internal/matcher/model"
	"sku-matcher/internal/matcher/service"
)

var (
	errNoFile    = errors.New(model.CodeNoFile)
	errBadFormat = errors.New(model.CodeBadFormat)
)

// SnapshotProvider отдаёт индекс справочника; в проде это *catalog.Provider.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// Match — POST /match. Поле формы "file" (.xlsx/.xls/.csv), format=json|xlsx|csv.
func Match(cfg config.Config, provider SnapshotProvider, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := zerolog.Ctx(r.Context())
		if log.GetLevel() == zerolog.Disabled {
			log = &logger
		}

		fail := func(err error, stage string) {
			code, status := writeError(w, err)
			ev := log.Warn()
			if status >= http.StatusInternalServerError {
				ev = log.Error()
			}
			ev.Err(err).Str("stage", stage).Str("code", code).Msg("match failed")
		}

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				fail(err, "upload")
				return
			}
			fail(fmt.Errorf("bad multipart form: %v: %w", err, errNoFile), "upload")
			return
		}
		format, ok := outputFormat(r)
		if !ok {
			fail(fmt.Errorf("format %q: %w", r.FormValue("format"), errBadFormat), "upload")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			fail(fmt.Errorf("missing file: %v: %w", err, errNoFile), "upload")
			return
		}
		defer file.Close()

		// сначала вход, потом справочник: кривую шапку пользователю показываем раньше
		table, err := fileio.ReadAnyRows(file, header.Filename)
		if err != nil {
			fail(err, "read_input")
			return
		}
		rawNames, err := service.LoadInputRows(table)
		if err != nil {
			fail(err, "input_header")
			return
		}

		snap, err := provider.Snapshot(r.Context())
		if err != nil {
			fail(err, "catalog")
			return
		}

		rows, outcomes, err := service.MatchConcurrent(r.Context(), rawNames, snap.Index, cfg.MatchWorkers)
		if err != nil {
			fail(err, "match")
			return
		}
		stats := service.Summarize(outcomes)

		if format == "" {
			if err := writeJSON(w, http.StatusOK, matchResponse{OK: true, Rows: rows, Stats: stats}); err != nil {
				log.Error().Err(err).Msg("write json")
				return
			}
		} else {
			w.Header().Set("Content-Type", format.ContentType())
			w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="output.%s"`, format))
			w.Header().Set("Cache-Control", "no-store")
			if err := fileio.WriteRows(w, format, model.OutputHeader, toCells(rows)); err != nil {
				log.Error().Err(err).Msg("write output")
				return
			}
		}

		log.Info().
			Str("file", header.Filename).
			Str("catalog", snap.Name).
			Int("rows", stats.Rows).
			Int("by_sku", stats.BySKU).
			Int("by_raw_model", stats.ByRawModel).
			Int("by_raw_model_alnum", stats.ByAlnum).
			Int("not_found", stats.NotFoundCount).
			Dur("elapsed", time.Since(start)).
			Msg("match done")
	}
}

// Template — GET /template: пустой шаблон с одной колонкой raw_name.
func Template(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", fileio.FormatXLSX.ContentType())
		w.Header().Set("Content-Disposition", `attachment; filename="raw_names_input.xlsx"`)
		if err := fileio.WriteXLSX(w, []string{"raw_name"}, nil); err != nil {
			logger.Error().Err(err).Msg("write template")
		}
	}
}
