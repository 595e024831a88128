// internal/tests/draft_flow_test.go
package tests

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/catalog-admin/internal/config"
	"github.com/javajoker/catalog-admin/internal/router"
	"github.com/javajoker/catalog-admin/internal/services"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// catalogBackend is a stand-in for the catalog API.
type catalogBackend struct {
	mtx      sync.Mutex
	items    map[string]string
	requests []*http.Request
	forms    []*multipart.Form
	status   int
}

func (b *catalogBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.requests = append(b.requests, r)
	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodGet {
		body, ok := b.items[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"message":"Item not found"}`)
			return
		}
		io.WriteString(w, body)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err == nil {
		b.forms = append(b.forms, r.MultipartForm)
	}
	if b.status != 0 {
		w.WriteHeader(b.status)
		io.WriteString(w, `{"message":"rejected by backend"}`)
		return
	}
	w.WriteHeader(http.StatusCreated)
	io.WriteString(w, `{"item":{"_id":"created-1","name":"Tee"}}`)
}

func (b *catalogBackend) setStatus(status int) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.status = status
}

type DraftFlowTestSuite struct {
	suite.Suite
	backend *catalogBackend
	server  *httptest.Server
	router  *gin.Engine
}

func (suite *DraftFlowTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.backend = &catalogBackend{items: map[string]string{
		"/api/items/item1": `{"success":true,"data":{"item":{
			"_id":"item1","name":"Tee","price":499,"isActive":true,
			"variants":[{"color":{"name":"Black","hex":"#111111"},
				"images":[{"url":"https://cdn/b1.png","order":1}],
				"sizes":[{"sku":"B-S","size":"S","stock":4},{"sku":"B-XXL","size":"XXL","stock":1}]}]
		}}}`,
	}}
	suite.server = httptest.NewServer(suite.backend)

	cfg := &config.Config{
		Environment: "test",
		Backend: config.BackendConfig{
			BaseURL: suite.server.URL + "/api",
			Timeout: 5 * time.Second,
			Issuer:  "catalog-admin",
		},
		Uploads: config.UploadConfig{
			MaxVariantImageSize: 1024 * 1024,
			MaxMeasureImageSize: 1024 * 1024,
			MaxIconSize:         64 * 1024,
			MaxMultipartMemory:  8 * 1024 * 1024,
		},
		Catalog: config.CatalogConfig{Sizes: "S,M,L"},
		Drafts:  config.DraftConfig{IdleTTL: time.Hour, SweepInterval: time.Minute},
		RateLimit: config.RateLimitConfig{
			GeneralPerSecond: 1000,
			GeneralBurst:     1000,
			UploadPerMinute:  1000,
			UploadBurst:      1000,
		},
	}

	suite.router = router.Initialize(cfg, router.NewServices(cfg), router.NewLimiters(cfg))
}

func (suite *DraftFlowTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *DraftFlowTestSuite) do(method, path string, body interface{}) (int, envelope) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(data)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return suite.serve(req)
}

func (suite *DraftFlowTestSuite) upload(path, field, filename string, data []byte) (int, envelope) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(suite.T(), err)
	part.Write(data)
	require.NoError(suite.T(), w.Close())

	req, _ := http.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return suite.serve(req)
}

func (suite *DraftFlowTestSuite) serve(req *http.Request) (int, envelope) {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response envelope
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err, w.Body.String())
	return w.Code, response
}

func (suite *DraftFlowTestSuite) openDraft(body interface{}) services.Draft {
	code, response := suite.do(http.MethodPost, "/v1/drafts", body)
	require.Equal(suite.T(), http.StatusCreated, code)

	var draft services.Draft
	require.NoError(suite.T(), json.Unmarshal(response.Data, &draft))
	return draft
}

func pngFile(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{G: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (suite *DraftFlowTestSuite) TestCreateFlow() {
	t := suite.T()
	draft := suite.openDraft(nil)
	assert.Equal(t, services.EncodeModeCreate, draft.Mode)
	base := "/v1/drafts/" + draft.ID.String()

	code, _ := suite.do(http.MethodPatch, base, map[string]interface{}{"name": "Tee", "price": "499"})
	assert.Equal(t, http.StatusOK, code)

	code, _ = suite.do(http.MethodPost, base+"/variants", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = suite.do(http.MethodPatch, base+"/variants/0", map[string]string{"color_name": "Black", "color_hex": "#000000"})
	assert.Equal(t, http.StatusOK, code)

	code, response := suite.upload(base+"/variants/0/images", "images", "front.png", pngFile(t))
	assert.Equal(t, http.StatusOK, code, response.Error)

	code, response = suite.do(http.MethodPatch, base+"/variants/0/sizes/0", map[string]string{"field": "stock", "value": "5"})
	assert.Equal(t, http.StatusOK, code)

	var updated services.Draft
	require.NoError(t, json.Unmarshal(response.Data, &updated))
	require.Len(t, updated.Item.Variants, 1)
	assert.Len(t, updated.Item.Variants[0].Images, 1)
	assert.Equal(t, 5, *updated.Item.Variants[0].Sizes[0].Stock)

	code, response = suite.do(http.MethodGet, base+"/payload", nil)
	assert.Equal(t, http.StatusOK, code)
	var preview services.PayloadPreview
	require.NoError(t, json.Unmarshal(response.Data, &preview))
	assert.Equal(t, "name", preview.Fields[0].Name)

	code, response = suite.do(http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusCreated, code, response.Error)
	assert.True(t, response.Success)

	require.Len(t, suite.backend.forms, 1)
	form := suite.backend.forms[0]
	assert.Equal(t, []string{"Tee"}, form.Value["name"])
	require.Len(t, form.File[services.VariantFileField("Black")], 1)
	assert.Equal(t, "front.png", form.File[services.VariantFileField("Black")][0].Filename)
	assert.Equal(t, http.MethodPost, suite.backend.requests[0].Method)

	// A successful submit ends the session.
	code, _ = suite.do(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func (suite *DraftFlowTestSuite) TestSubmitWithoutNamedVariant() {
	t := suite.T()
	draft := suite.openDraft(nil)
	base := "/v1/drafts/" + draft.ID.String()

	suite.do(http.MethodPost, base+"/variants", nil)
	code, response := suite.do(http.MethodPost, base+"/submit", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, response.Error)
	assert.Equal(t, services.MsgVariantRequired, response.Error.Message)
	assert.Empty(t, suite.backend.requests)

	// The draft survives a rejected submit.
	code, _ = suite.do(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusOK, code)
}

func (suite *DraftFlowTestSuite) TestBackendRejection() {
	t := suite.T()
	suite.backend.setStatus(http.StatusUnprocessableEntity)
	draft := suite.openDraft(nil)
	base := "/v1/drafts/" + draft.ID.String()

	suite.do(http.MethodPost, base+"/variants", nil)
	suite.do(http.MethodPatch, base+"/variants/0", map[string]string{"color_name": "Black"})
	code, response := suite.do(http.MethodPost, base+"/submit", nil)

	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, response.Error)
	assert.Equal(t, "rejected by backend", response.Error.Message)

	// The draft is untouched and can be submitted again.
	code, response = suite.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, code)
	var kept services.Draft
	require.NoError(t, json.Unmarshal(response.Data, &kept))
	require.Len(t, kept.Item.Variants, 1)
	assert.Equal(t, "Black", kept.Item.Variants[0].ColorName)

	suite.backend.setStatus(0)
	code, response = suite.do(http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusCreated, code, response.Error)
	assert.True(t, response.Success)

	require.Len(t, suite.backend.forms, 2)
	assert.Equal(t, suite.backend.forms[0].Value, suite.backend.forms[1].Value)
}

func (suite *DraftFlowTestSuite) TestColorNameWithControlCharacters() {
	t := suite.T()
	draft := suite.openDraft(nil)
	base := "/v1/drafts/" + draft.ID.String()

	suite.do(http.MethodPost, base+"/variants", nil)
	code, response := suite.do(http.MethodPatch, base+"/variants/0", map[string]string{"color_name": "Red\r\nX-Injected: yes"})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, response.Error)
	assert.Equal(t, "VALIDATION_ERROR", response.Error.Code)

	code, response = suite.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, code)
	var kept services.Draft
	require.NoError(t, json.Unmarshal(response.Data, &kept))
	assert.Equal(t, "", kept.Item.Variants[0].ColorName)
}

func (suite *DraftFlowTestSuite) TestUnknownDraft() {
	code, response := suite.do(http.MethodGet, "/v1/drafts/2d9f0a62-0a5e-4a43-9d3e-6a2b0f0c1e11", nil)
	assert.Equal(suite.T(), http.StatusNotFound, code)
	assert.Equal(suite.T(), "Draft not found", response.Error.Message)

	code, _ = suite.do(http.MethodGet, "/v1/drafts/not-a-uuid", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, code)
}

func (suite *DraftFlowTestSuite) TestEditOpensFromBackend() {
	t := suite.T()
	code, response := suite.do(http.MethodPost, "/v1/drafts", map[string]string{"item_id": "item1"})
	require.Equal(t, http.StatusCreated, code)

	var draft services.Draft
	require.NoError(t, json.Unmarshal(response.Data, &draft))
	assert.Equal(t, services.EncodeModeEdit, draft.Mode)
	assert.Equal(t, "item1", draft.Item.ID)
	require.Len(t, draft.Item.Variants, 1)
	assert.Equal(t, "Black", draft.Item.Variants[0].ColorName)
	assert.Len(t, draft.Item.Variants[0].Sizes, 3)

	var meta struct {
		Warnings []services.HydrationWarning `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(response.Meta, &meta))
	require.Len(t, meta.Warnings, 1)
	assert.Equal(t, "XXL", meta.Warnings[0].Size)

	code, _ = suite.do(http.MethodPost, "/v1/drafts", map[string]string{"item_id": "missing"})
	assert.Equal(t, http.StatusNotFound, code)
}

func (suite *DraftFlowTestSuite) TestHealth() {
	code, _ := suite.do(http.MethodGet, "/health", nil)
	assert.Equal(suite.T(), http.StatusOK, code)
}

func TestDraftFlowTestSuite(t *testing.T) {
	suite.Run(t, new(DraftFlowTestSuite))
}
