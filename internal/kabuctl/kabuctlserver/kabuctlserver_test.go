// Copyright 2026 Peter Edge
//
// All rights reserved.

package kabuctlserver

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlconfig"
	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlrender"
	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlreport"
	"github.com/bufdev/kabuctl/internal/pkg/csvtable"
	"github.com/bufdev/kabuctl/internal/pkg/textdecode"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const testDividendCSV = `入金日(受渡日),商品,口座,銘柄コード,銘柄,受取通貨,単価,数量,配当・分配金(税引前),税額,受取金額
2024/01/15,国内株式,特定,7203,トヨタ自動車,円,-,100,"1,000",100,900
`

func TestProcessCSV(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(NewHandler(discardLogger(), newTestEngine(t)))
	t.Cleanup(server.Close)

	response := postFile(t, server.URL+"/process-csv/dividend", uploadFieldName, []byte(testDividendCSV))
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Equal(t, "text/html; charset=utf-8", response.Header.Get("Content-Type"))
	_, err := uuid.Parse(response.Header.Get(RequestIDHeader))
	require.NoError(t, err)
	document, err := goquery.NewDocumentFromReader(response.Body)
	require.NoError(t, err)
	require.Equal(t, "トヨタ自動車", document.Find("tbody td.security_name").Text())
	require.Equal(t, "2024/01", document.Find("tbody tr.group-total").AttrOr("data-group", ""))
}

func TestProcessCSVErrors(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(NewHandler(discardLogger(), newTestEngine(t), WithMaxUploadBytes(1024)))
	t.Cleanup(server.Close)

	response := postFile(t, server.URL+"/process-csv/receipts", uploadFieldName, []byte(testDividendCSV))
	require.Equal(t, http.StatusBadRequest, response.StatusCode)
	require.Contains(t, readBody(t, response), "unknown report kind")

	response = postFile(t, server.URL+"/process-csv/dividend", "upload", []byte(testDividendCSV))
	require.Equal(t, http.StatusBadRequest, response.StatusCode)

	response = postFile(t, server.URL+"/process-csv/dividend", uploadFieldName, []byte("a,b\n\"c\n"))
	require.Equal(t, http.StatusBadRequest, response.StatusCode)

	response = postFile(t, server.URL+"/process-csv/dividend", uploadFieldName, bytes.Repeat([]byte("a"), 2048))
	require.Equal(t, http.StatusRequestEntityTooLarge, response.StatusCode)

	response, err := http.Get(server.URL + "/process-csv/dividend")
	require.NoError(t, err)
	t.Cleanup(func() { _ = response.Body.Close() })
	require.Equal(t, http.StatusMethodNotAllowed, response.StatusCode)
}

func TestProcessCSVMissingLabel(t *testing.T) {
	t.Parallel()
	config, err := kabuctlconfig.DefaultConfig()
	require.NoError(t, err)
	config.Labels = map[string]string{"shares": "数量"}
	handler := NewHandler(discardLogger(), kabuctlreport.NewEngine(discardLogger(), config))
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	response := postFile(t, server.URL+"/process-csv/dividend", uploadFieldName, []byte(testDividendCSV))
	require.Equal(t, http.StatusInternalServerError, response.StatusCode)
	require.NotContains(t, readBody(t, response), "shares")
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	handler := NewHandler(discardLogger(), newTestEngine(t), WithRateLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "ok\n", recorder.Body.String())
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
}

func TestStatusForError(t *testing.T) {
	t.Parallel()
	require.Equal(t, http.StatusBadRequest, StatusForError(&kabuctlreport.UnknownReportKindError{Kind: "x"}))
	require.Equal(t, http.StatusBadRequest, StatusForError(fmt.Errorf("wrapped: %w", &textdecode.DecodeError{})))
	require.Equal(t, http.StatusBadRequest, StatusForError(&csvtable.MalformedInputError{Line: 1}))
	require.Equal(t, http.StatusInternalServerError, StatusForError(&kabuctlrender.MissingLabelError{Name: "x"}))
	require.Equal(t, http.StatusInternalServerError, StatusForError(io.ErrUnexpectedEOF))
}

func postFile(t *testing.T, url string, fieldName string, data []byte) *http.Response {
	body := &bytes.Buffer{}
	multipartWriter := multipart.NewWriter(body)
	part, err := multipartWriter.CreateFormFile(fieldName, "report.csv")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, multipartWriter.Close())
	response, err := http.Post(url, multipartWriter.FormDataContentType(), body)
	require.NoError(t, err)
	t.Cleanup(func() { _ = response.Body.Close() })
	return response
}

func readBody(t *testing.T, response *http.Response) string {
	data, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}

func newTestEngine(t *testing.T) *kabuctlreport.Engine {
	config, err := kabuctlconfig.DefaultConfig()
	require.NoError(t, err)
	return kabuctlreport.NewEngine(discardLogger(), config)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
