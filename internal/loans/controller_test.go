package loans

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"branchdesk/internal/shared/config"
	"branchdesk/internal/shared/middleware"
	"branchdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string                `json:"status"`
	Message string                `json:"message"`
	Data    SessionView           `json:"data"`
	Errors  []response.FieldError `json:"errors"`
}

func setupLoanRouter(t *testing.T, upload config.UploadConfig) (*gin.Engine, *serviceFixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newServiceFixture(t)
	r := gin.New()
	r.Use(middleware.Language())
	SetupLoanRoutes(r.Group("/api/v1"), NewController(f.svc, upload))
	return r, f
}

func do(r http.Handler, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	return do(r, method, path, payload, "application/json")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func multipartFile(t *testing.T, name, contentType string, data []byte) ([]byte, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func TestListLoanTypesEndpoint(t *testing.T) {
	r, _ := setupLoanRouter(t, config.UploadConfig{})

	w := do(r, http.MethodGet, "/api/v1/loan-types?lang=hindi", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Language  string         `json:"language"`
			LoanTypes []LoanTypeView `json:"loan_types"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "hindi", body.Data.Language)
	require.Len(t, body.Data.LoanTypes, 4)
	assert.Equal(t, LoanTypePersonal, body.Data.LoanTypes[0].ID)
	assert.Equal(t, "पर्सनल लोन", body.Data.LoanTypes[0].Title)
}

func TestWizardOverHTTP(t *testing.T) {
	r, f := setupLoanRouter(t, config.UploadConfig{MaxDocumentSize: 1 << 20, MaxChunkSize: 1 << 10})

	w := doJSON(r, http.MethodPost, "/api/v1/loan-sessions", map[string]string{"language": "english"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w).Data.ID
	base := "/api/v1/loan-sessions/" + id

	w = doJSON(r, http.MethodPost, base+"/loan-type", map[string]string{"loan_type": "car"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, base+"/loan-type", map[string]string{"loan_type": "home"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, StepIntro, decode(t, w).Data.Step)

	w = do(r, http.MethodPost, base+"/intro/toggle", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	f.sched.Advance(100 * introTick)

	w = do(r, http.MethodGet, base, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, StepDocuments, decode(t, w).Data.Step)

	body, ct := multipartFile(t, "notes.txt", "text/plain", []byte("hello"))
	w = do(r, http.MethodPut, base+"/documents/pan", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, "Please upload an image file", env.Message)
	require.Len(t, env.Errors, 1)

	w = do(r, http.MethodDelete, base+"/documents/error", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w).Data.Documents.Error)

	body, ct = multipartFile(t, "pan.png", "image/png", pngHeader)
	w = do(r, http.MethodPut, base+"/documents/pan", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, decode(t, w).Data.Application.Documents[DocumentPAN])

	w = do(r, http.MethodPost, base+"/forward", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, StepRecording, decode(t, w).Data.Step)

	w = do(r, http.MethodPost, base+"/forward", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, base+"/recording/start", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	f.sched.Advance(3 * countdownTick)

	w = do(r, http.MethodPost, base+"/recording/chunks", []byte("webm-bytes"), "application/octet-stream")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodPost, base+"/recording/chunks", bytes.Repeat([]byte("x"), 2048), "application/octet-stream")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = do(r, http.MethodPost, base+"/recording/stop", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, RecorderPreview, decode(t, w).Data.Recording.State)

	w = do(r, http.MethodPost, base+"/recording/submit", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env = decode(t, w)
	assert.Equal(t, StepStatus, env.Data.Step)
	assert.Equal(t, StatusApproved, env.Data.Application.Status)
	require.NotNil(t, env.Data.Result)
	assert.Equal(t, "Congratulations! Your loan has been approved 🎉", env.Data.Result.Message)

	w = do(r, http.MethodPost, base+"/back", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodDelete, base, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, base, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSessionUsesRequestLanguage(t *testing.T) {
	r, _ := setupLoanRouter(t, config.UploadConfig{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/loan-sessions", nil)
	req.Header.Set(middleware.LanguageHeader, "telugu")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "telugu", string(decode(t, w).Data.Language))
}

func TestDocumentTooLarge(t *testing.T) {
	r, f := setupLoanRouter(t, config.UploadConfig{MaxDocumentSize: 4})

	view, err := f.svc.Create(context.Background(), "")
	require.NoError(t, err)

	body, ct := multipartFile(t, "big.png", "image/png", pngHeader)
	w := do(r, http.MethodPut, "/api/v1/loan-sessions/"+view.ID+"/documents/pan", body, ct)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestReportFailureEndpoint(t *testing.T) {
	r, f := setupLoanRouter(t, config.UploadConfig{})
	id := f.toRecording(t)
	base := "/api/v1/loan-sessions/" + id

	w := do(r, http.MethodPost, base+"/recording/start", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	f.sched.Advance(3 * countdownTick)

	w = doJSON(r, http.MethodPost, base+"/recording/failure", map[string]string{"reason": "camera unplugged"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rec := decode(t, w).Data.Recording
	require.NotNil(t, rec)
	assert.Equal(t, RecorderFailed, rec.State)
	assert.Contains(t, rec.Error, "camera unplugged")

	w = do(r, http.MethodPost, base+"/recording/stop", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}
