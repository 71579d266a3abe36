package pricelist_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricelistHandler "github.com/MrJamesThe3rd/archdesk/internal/http/pricelist"
	"github.com/MrJamesThe3rd/archdesk/internal/importer"
	"github.com/MrJamesThe3rd/archdesk/internal/metrics"
)

const sample = "~V|Estudio|FIEBDC-3/2020|Presto||ANSI|\n" +
	"~C|PART##|u|Presupuesto|0||0|\n" +
	"~C|E01|m2|Solera|0||0|\n" +
	"~C|MO01|h|Oficial|20.50||1|\n" +
	"~C|MT01|m3|Hormigon|60||3|\n" +
	"~D|E01|MO01\\1\\0.2\\MT01\\1\\0.1\\|\n"

func newRouter() http.Handler {
	h := pricelistHandler.NewHandler(importer.NewService())

	r := chi.NewRouter()
	r.Route("/pricelists", h.Routes)

	return r
}

func upload(t *testing.T, h http.Handler, format, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	if format != "" {
		require.NoError(t, mw.WriteField("format", format))
	}

	if content != "" {
		fw, err := mw.CreateFormFile("file", "precios.bc3")
		require.NoError(t, err)

		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/pricelists/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Import(t *testing.T) {
	before := testutil.ToFloat64(metrics.ImportedConcepts)

	rec := upload(t, newRouter(), "", sample)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Owner    string   `json:"owner"`
		Charset  string   `json:"charset"`
		Roots    []string `json:"roots"`
		Concepts []struct {
			Code   string  `json:"code"`
			Kind   string  `json:"kind"`
			Amount *string `json:"amount"`
		} `json:"concepts"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	assert.Equal(t, "Estudio", got.Owner)
	assert.Equal(t, "ANSI", got.Charset)
	assert.Equal(t, []string{"PART"}, got.Roots)
	require.Len(t, got.Concepts, 4)

	e01 := got.Concepts[1]
	assert.Equal(t, "E01", e01.Code)
	require.NotNil(t, e01.Amount)
	assert.Equal(t, "10.1", *e01.Amount)

	assert.Equal(t, "labour", got.Concepts[2].Kind)
	assert.Nil(t, got.Concepts[2].Amount)

	assert.InDelta(t, 4, testutil.ToFloat64(metrics.ImportedConcepts)-before, 0.001)
}

func TestHandler_ImportErrors(t *testing.T) {
	type testCase struct {
		name     string
		format   string
		content  string
		wantCode int
	}

	tests := []testCase{
		{name: "missing file", wantCode: http.StatusBadRequest},
		{name: "unknown format", format: "xlsx", content: sample, wantCode: http.StatusUnprocessableEntity},
		{name: "no concepts", content: "~V|Estudio|FIEBDC-3/2020|Presto||ANSI|\n", wantCode: http.StatusUnprocessableEntity},
		{name: "bad price", content: "~C|A01|m|Muro|doce||0|\n", wantCode: http.StatusUnprocessableEntity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := upload(t, newRouter(), tc.format, tc.content)
			assert.Equal(t, tc.wantCode, rec.Code, rec.Body.String())
		})
	}
}
