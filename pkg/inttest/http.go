package inttest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/delegasi/delegation-manager/internal/handler"
	"github.com/delegasi/delegation-manager/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

// SetupHTTPServer creates an HTTP server using Gin. An HTTP client is returned to interact with the
// created server.
func SetupHTTPServer(t *testing.T, validations map[string]validator.Func, f func(engine *gin.Engine)) *HTTPClient {
	t.Helper()

	err := handler.RegisterValidation(validations)
	require.NoError(t, err, "failed to register validation")
	gin.SetMode(gin.TestMode)

	engine := server.GetEngine(slog.New(slog.DiscardHandler), "")
	f(engine)

	server := httptest.NewServer(engine.Handler())
	client := server.Client()
	t.Cleanup(func() {
		client.CloseIdleConnections()
		server.Close()
	})

	return &HTTPClient{Client: client, ServerURL: server.URL}
}

// HTTPClient allows making requests in a way most of our handlers would expect them. It does so by
// wrapping an http.Client. Access the actual http.Client for specific use cases where our defaults don't
// work.
type HTTPClient struct {
	Client    *http.Client
	ServerURL string
}

// WithHeader adds a header with the given key and value to HTTP request headers.
func WithHeader(key string, value string) func(http.Header) {
	return func(header http.Header) {
		header.Add(key, value)
	}
}

// Envelope mirrors the body of every JSON response. Data is kept raw so tests can unmarshal it
// into the type they expect.
type Envelope struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Get sends an HTTP GET request to given path. Optional headers are applied to the request. The
// response body is read in full and returned as is. Failure to read or close the HTTP response body
// and HTTP status other than 200 will fail the test associated with t.
func (hc *HTTPClient) Get(t *testing.T, path string, headers ...func(http.Header)) []byte {
	t.Helper()
	return hc.Do(t, http.MethodGet, path, nil, http.StatusOK, headers...)
}

// Do sends an HTTP request of given method to given path. Optional headers are applied to the
// request. The response body is read in full and returned as is. Failure to read or close the HTTP
// response body and HTTP status other than given expectedStatus will fail the test associated with t.
func (hc *HTTPClient) Do(t *testing.T, method, path string, requestBody io.Reader, expectedStatus int, headers ...func(http.Header)) []byte {
	t.Helper()

	req := hc.newRequest(t, method, path, requestBody, headers...)
	res := hc.do(t, req)

	errMsg := httpClientErrMessage(method, path)
	defer func() {
		require.NoError(t, res.Body.Close(), errMsg+": failed to close HTTP response body")
	}()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err, errMsg+": failed to read HTTP response body")
	require.Equal(t, expectedStatus, res.StatusCode, errMsg+": HTTP status mismatch, body: %s", body)
	return body
}

// do delegates the request to the underlying HTTP client.
func (hc *HTTPClient) do(t *testing.T, req *http.Request) *http.Response {
	resp, err := hc.Client.Do(req)
	require.NoError(t, err, httpClientErrMessage(req.Method, req.URL.Path)+": HTTP request failed")
	return resp
}

// DoJSON sends an HTTP request of given method to given path. The optional requestBody is assumed
// to be JSON. The response body is unmarshaled as an Envelope whose data is unmarshaled into given
// data unless it is nil. Failure to read or close the HTTP response body and HTTP status other
// than given expectedStatus will fail the test associated with t.
func (hc *HTTPClient) DoJSON(t *testing.T, method, path string, requestBody io.Reader, expectedStatus int, data any, headers ...func(http.Header)) Envelope {
	t.Helper()

	if requestBody != nil {
		headers = append(headers, WithHeader("Content-Type", "application/json"))
	}
	body := hc.Do(t, method, path, requestBody, expectedStatus, headers...)

	return decodeEnvelope(t, method, path, body, expectedStatus, data)
}

// GetJSON sends an HTTP GET request to given path and unmarshals the data of the returned
// envelope into data.
func (hc *HTTPClient) GetJSON(t *testing.T, path string, data any, headers ...func(http.Header)) Envelope {
	t.Helper()
	return hc.DoJSON(t, http.MethodGet, path, nil, http.StatusOK, data, headers...)
}

// PostJSON sends an HTTP POST request to given path and unmarshals the data of the returned
// envelope into data.
func (hc *HTTPClient) PostJSON(t *testing.T, path string, requestBody io.Reader, expectedStatus int, data any, headers ...func(http.Header)) Envelope {
	t.Helper()
	return hc.DoJSON(t, http.MethodPost, path, requestBody, expectedStatus, data, headers...)
}

// PutJSON sends an HTTP PUT request to given path and unmarshals the data of the returned envelope
// into data.
func (hc *HTTPClient) PutJSON(t *testing.T, path string, requestBody io.Reader, expectedStatus int, data any, headers ...func(http.Header)) Envelope {
	t.Helper()
	return hc.DoJSON(t, http.MethodPut, path, requestBody, expectedStatus, data, headers...)
}

// MultipartFile is a file part of a multipart request.
type MultipartFile struct {
	Field    string
	Name     string
	Content  string
	MimeType string
}

// DoMultipart sends a multipart/form-data request with the given fields and files. The response
// is handled like in DoJSON.
func (hc *HTTPClient) DoMultipart(t *testing.T, method, path string, fields map[string]string, files []MultipartFile, expectedStatus int, data any) Envelope {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, file := range files {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Name)}
		header["Content-Type"] = []string{file.MimeType}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(file.Content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	responseBody := hc.Do(t, method, path, body, expectedStatus, WithHeader("Content-Type", writer.FormDataContentType()))

	return decodeEnvelope(t, method, path, responseBody, expectedStatus, data)
}

func decodeEnvelope(t *testing.T, method, path string, body []byte, expectedStatus int, data any) Envelope {
	t.Helper()

	errMsg := httpClientErrMessage(method, path)
	var envelope Envelope
	err := json.Unmarshal(body, &envelope)
	require.NoError(t, err, errMsg+": failed to unmarshal response body")
	require.Equal(t, expectedStatus, envelope.Status, errMsg+": envelope status mismatch")

	if data != nil {
		err = json.Unmarshal(envelope.Data, data)
		require.NoError(t, err, errMsg+": failed to unmarshal response data")
	}

	return envelope
}

func httpClientErrMessage(method, path string) string {
	return fmt.Sprintf("failed %s %q", method, path)
}

// newRequest creates a new HTTP request to the server at given path after applying any optional
// headers.
func (hc *HTTPClient) newRequest(t *testing.T, method, path string, body io.Reader, headers ...func(http.Header)) *http.Request {
	t.Helper()

	req, err := http.NewRequest(method, hc.ServerURL+path, body)
	require.NoError(t, err, httpClientErrMessage(method, path)+": failed to create request")

	for _, f := range headers {
		f(req.Header)
	}

	return req
}
