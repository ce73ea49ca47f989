package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sku-matcher/internal/catalog"
	"sku-matcher/internal/config"
	"sku-matcher/internal/fileio"
	"sku-matcher/internal/matcher/model"
	"sku-matcher/internal/matcher/service"
)

type fakeProvider struct {
	snap *catalog.Snapshot
	err  error
}

func (f fakeProvider) Snapshot(context.Context) (*catalog.Snapshot, error) { return f.snap, f.err }

func testProvider() fakeProvider {
	idx := service.BuildIndex([]model.ReferenceItem{
		{SKU: "AB12", Model: "Long", RawModel: ""},
		{SKU: "B12", Model: "Short", RawModel: ""},
		{SKU: "S-1", Model: "Galaxy", RawModel: "Galaxy Tab"},
	})
	return fakeProvider{snap: &catalog.Snapshot{Name: "ref.xlsx", Index: idx}}
}

func xlsxUpload(t *testing.T, header []string, rows ...string) []byte {
	t.Helper()
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r}
	}
	var buf bytes.Buffer
	require.NoError(t, fileio.WriteXLSX(&buf, header, cells))
	return buf.Bytes()
}

func newUpload(t *testing.T, filename string, data []byte, query string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/match"+query, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(p SnapshotProvider, req *http.Request) *httptest.ResponseRecorder {
	h := Match(config.Config{MatchWorkers: 2}, p, zerolog.Nop())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	return resp.Error
}

func TestMatchJSON(t *testing.T) {
	data := xlsxUpload(t, []string{"raw_name"}, "kit ab12", "galaxy tab", "Galaxy-Tab", "nothing")
	rec := serve(testProvider(), newUpload(t, "input.xlsx", data, ""))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp matchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, []model.ResultRow{
		{RawName: "kit ab12", SKU: "AB12", Model: "Long"},
		{RawName: "galaxy tab", SKU: "S-1", Model: "Galaxy"},
		{RawName: "Galaxy-Tab", SKU: "S-1", Model: "Galaxy", Note: model.NoteAlnumHit},
		{RawName: "nothing", SKU: model.NotFound, Model: model.NotFound},
	}, resp.Rows)
	assert.Equal(t, model.Stats{Rows: 4, BySKU: 1, ByRawModel: 1, ByAlnum: 1, NotFoundCount: 1}, resp.Stats)
}

func TestMatchXLSXOutput(t *testing.T) {
	data := xlsxUpload(t, []string{"raw_name"}, "kit ab12")
	rec := serve(testProvider(), newUpload(t, "input.xlsx", data, "?format=xlsx"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fileio.FormatXLSX.ContentType(), rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "output.xlsx")

	rows, err := fileio.ReadAnyRows(rec.Body, "output.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, model.OutputHeader, rows[0])
	// пустая note в конце строки excelize не возвращает
	assert.Equal(t, []string{"kit ab12", "AB12", "Long"}, rows[1])
}

func TestMatchCSVInputAndOutput(t *testing.T) {
	rec := serve(testProvider(), newUpload(t, "input.csv", []byte("raw_name\nb12 case\n"), "?format=csv"))

	require.Equal(t, http.StatusOK, rec.Code)
	rows, err := fileio.ReadAnyRows(rec.Body, "output.csv")
	require.NoError(t, err)
	assert.Equal(t, [][]string{model.OutputHeader, {"b12 case", "B12", "Short", ""}}, rows)
}

func TestMatchErrors(t *testing.T) {
	good := xlsxUpload(t, []string{"raw_name"}, "x")

	cases := []struct {
		name     string
		provider fakeProvider
		req      *http.Request
		status   int
		code     string
	}{
		{
			name:     "no file",
			provider: testProvider(),
			req:      newUpload(t, "", nil, ""),
			status:   http.StatusBadRequest,
			code:     model.CodeNoFile,
		},
		{
			name:     "bad header",
			provider: testProvider(),
			req:      newUpload(t, "input.xlsx", xlsxUpload(t, []string{"name"}, "x"), ""),
			status:   http.StatusBadRequest,
			code:     model.CodeBadHeader,
		},
		{
			name:     "reference schema",
			provider: fakeProvider{err: fmt.Errorf("load: %w", model.ErrSchema)},
			req:      newUpload(t, "input.xlsx", good, ""),
			status:   http.StatusBadRequest,
			code:     model.CodeBadSchema,
		},
		{
			name:     "reference missing",
			provider: fakeProvider{err: fmt.Errorf("ref.xlsx: %w", catalog.ErrMissing)},
			req:      newUpload(t, "input.xlsx", good, ""),
			status:   http.StatusInternalServerError,
			code:     model.CodeRefMissing,
		},
		{
			name:     "broken workbook",
			provider: testProvider(),
			req:      newUpload(t, "input.xlsx", []byte("not a workbook"), ""),
			status:   http.StatusInternalServerError,
			code:     model.CodeServerError,
		},
		{
			name:     "unexpected",
			provider: fakeProvider{err: errors.New("boom")},
			req:      newUpload(t, "input.xlsx", good, ""),
			status:   http.StatusInternalServerError,
			code:     model.CodeServerError,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := serve(c.provider, c.req)
			assert.Equal(t, c.status, rec.Code)
			assert.Equal(t, c.code, decodeError(t, rec))
		})
	}
}

func TestMatchBadHeaderBeforeCatalog(t *testing.T) {
	// шапка проверяется раньше, чем грузится справочник
	p := fakeProvider{err: fmt.Errorf("ref.xlsx: %w", catalog.ErrMissing)}
	rec := serve(p, newUpload(t, "input.xlsx", xlsxUpload(t, []string{"raw_name", "extra"}), ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.CodeBadHeader, decodeError(t, rec))
}

func TestMatchUnsupportedFormat(t *testing.T) {
	data := xlsxUpload(t, []string{"raw_name"}, "x")
	rec := serve(testProvider(), newUpload(t, "input.xlsx", data, "?format=pdf"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, model.CodeBadFormat, decodeError(t, rec))
}

func TestTemplate(t *testing.T) {
	rec := httptest.NewRecorder()
	Template(zerolog.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/template", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "raw_names_input.xlsx")
	rows, err := fileio.ReadAnyRows(rec.Body, "raw_names_input.xlsx")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"raw_name"}}, rows)
}

func TestErrorCodeBadFormat(t *testing.T) {
	code, status := errorCode(fmt.Errorf("format %q: %w", "pdf", errBadFormat))
	assert.Equal(t, model.CodeBadFormat, code)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestErrorCodeMaxBytes(t *testing.T) {
	code, status := errorCode(&http.MaxBytesError{Limit: 10})
	assert.Equal(t, model.CodeNoFile, code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
}
