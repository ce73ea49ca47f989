// Command skumatch сопоставляет файл raw_name со справочником за один прогон.
//
//	skumatch -ref sku_model_list.xlsx -in raw_names.xlsx -out output.xlsx
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"sku-matcher/internal/catalog"
	"sku-matcher/internal/config"
	"sku-matcher/internal/fileio"
	"sku-matcher/internal/matcher/model"
	"sku-matcher/internal/matcher/service"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("skumatch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	refPath := fs.String("ref", "sku_model_list.xlsx", "reference catalog (.xlsx/.xls/.csv) with sku, model, raw_model")
	inPath := fs.String("in", "", "input file with a single raw_name column")
	outPath := fs.String("out", "output.xlsx", "output file (.xlsx or .csv)")
	workers := fs.Int("workers", runtime.NumCPU(), "parallel match workers")
	level := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *inPath == "" {
		fmt.Fprintln(stderr, "skumatch: -in is required")
		fs.Usage()
		return 2
	}

	logger := config.SetupLogger(config.Config{LogLevel: *level}, stderr)

	if err := matchFiles(context.Background(), *refPath, *inPath, *outPath, *workers, logger); err != nil {
		code, exit := classify(err)
		logger.Error().Err(err).Str("code", code).Msg("skumatch failed")
		return exit
	}
	return 0
}

// classify: ошибки шапки/справочника — 2, остальное — 1
func classify(err error) (string, int) {
	switch {
	case errors.Is(err, model.ErrHeader):
		return model.CodeBadHeader, 2
	case errors.Is(err, model.ErrSchema):
		return model.CodeBadSchema, 2
	case errors.Is(err, catalog.ErrMissing):
		return model.CodeRefMissing, 1
	default:
		return model.CodeServerError, 1
	}
}

func matchFiles(ctx context.Context, refPath, inPath, outPath string, workers int, logger zerolog.Logger) error {
	start := time.Now()

	outFormat, err := fileio.FormatOf(outPath)
	if err != nil {
		return err
	}
	if outFormat == fileio.FormatXLS {
		return fmt.Errorf("output %s: .xls is read-only, use .xlsx or .csv", outPath)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()
	table, err := fileio.ReadAnyRows(in, filepath.Base(inPath))
	if err != nil {
		return err
	}
	rawNames, err := service.LoadInputRows(table)
	if err != nil {
		return err
	}

	data, name, err := catalog.FileSource{Path: refPath}.Fetch(ctx)
	if err != nil {
		return err
	}
	snap, err := catalog.Build(data, name)
	if err != nil {
		return err
	}

	rows, outcomes, err := service.MatchConcurrent(ctx, rawNames, snap.Index, workers)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.Cells()
	}
	if err := fileio.WriteRows(out, outFormat, model.OutputHeader, cells); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	st := service.Summarize(outcomes)
	logger.Info().
		Str("catalog", name).
		Int("catalog_rows", snap.Index.Len()).
		Int("rows", st.Rows).
		Int("by_sku", st.BySKU).
		Int("by_raw_model", st.ByRawModel).
		Int("by_raw_model_alnum", st.ByAlnum).
		Int("not_found", st.NotFoundCount).
		Str("out", outPath).
		Dur("elapsed", time.Since(start)).
		Msg("done")
	return nil
}
