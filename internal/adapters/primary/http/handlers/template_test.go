package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"template-registry-service/internal/core/domain"
	"template-registry-service/internal/core/services"
	"template-registry-service/internal/testutil"
)

func setupRouter() (*testutil.MockTemplateRepo, *testutil.MockObjectStore, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	repo := new(testutil.MockTemplateRepo)
	store := new(testutil.MockObjectStore)

	svc := services.NewTemplateService(repo, store, "templates", 15*time.Minute)
	h := New(svc)

	r := gin.New()
	api := r.Group("/api/v1/template-registry")
	h.RegisterRoutes(api)
	return repo, store, r
}

func templateWithVersions(n int) *domain.Template {
	t := domain.NewTemplate("contract", "customer contracts")
	for i := 1; i <= n; i++ {
		path := domain.BuildStoragePath("contract", i, "a.zip")
		t.AddVersion("a.zip", path, "http://signed", time.Now().Add(15*time.Minute))
	}
	return t
}

func doJSON(r *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestUpload(t *testing.T) {
	repo, store, r := setupRouter()

	store.On("EnsureBucket", mock.Anything, "templates").Return(nil)
	repo.On("GetByName", mock.Anything, "contract").Return(nil, domain.ErrTemplateNotFound)
	store.On("ListKeys", mock.Anything, "templates", "contract/").Return([]string{}, nil)
	store.On("PresignUpload", mock.Anything, "templates", "contract/V1/Raw/a.zip", 15*time.Minute, "application/zip").
		Return("http://signed-put", nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Template")).Return(nil)

	w := doJSON(r, "POST", "/api/v1/template-registry/templates/upload-url", gin.H{
		"name":      "contract",
		"file_name": "a.zip",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "http://signed-put", resp["upload_url"])
	assert.Equal(t, float64(1), resp["version_number"])
	assert.Equal(t, "contract/V1/Raw/a.zip", resp["storage_path"])
}

func TestRequestUpload_MissingBody(t *testing.T) {
	_, _, r := setupRouter()

	w := doJSON(r, "POST", "/api/v1/template-registry/templates/upload-url", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestUpload_UnsupportedExtension(t *testing.T) {
	_, _, r := setupRouter()

	w := doJSON(r, "POST", "/api/v1/template-registry/templates/upload-url", gin.H{
		"name":      "contract",
		"file_name": "template.docx",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestUpload_PresignFailure(t *testing.T) {
	repo, store, r := setupRouter()

	store.On("EnsureBucket", mock.Anything, "templates").Return(nil)
	repo.On("GetByName", mock.Anything, "contract").Return(nil, domain.ErrTemplateNotFound)
	store.On("ListKeys", mock.Anything, "templates", "contract/").Return([]string{}, nil)
	store.On("PresignUpload", mock.Anything, "templates", mock.Anything, 15*time.Minute, "application/zip").
		Return("", errors.New("signing key rejected"))

	w := doJSON(r, "POST", "/api/v1/template-registry/templates/upload-url", gin.H{
		"name":      "contract",
		"file_name": "a.zip",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetTemplate(t *testing.T) {
	repo, _, r := setupRouter()
	tpl := templateWithVersions(2)

	repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)

	w := doJSON(r, "GET", "/api/v1/template-registry/templates/"+tpl.ID().String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "contract", resp["name"])
	assert.Equal(t, float64(2), resp["version"])
}

func TestGetTemplate_ByVersionID(t *testing.T) {
	repo, _, r := setupRouter()
	tpl := templateWithVersions(2)
	v2 := tpl.GetVersionByNumber(2)

	repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)

	w := doJSON(r, "GET", "/api/v1/template-registry/templates/"+tpl.ID().String()+"?versionId="+v2.ID().String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, float64(2), resp["version_number"])
}

func TestGetTemplate_NotFound(t *testing.T) {
	repo, _, r := setupRouter()
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrTemplateNotFound)

	w := doJSON(r, "GET", "/api/v1/template-registry/templates/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTemplate_InvalidID(t *testing.T) {
	_, _, r := setupRouter()

	w := doJSON(r, "GET", "/api/v1/template-registry/templates/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTemplates(t *testing.T) {
	repo, _, r := setupRouter()

	repo.On("GetAll", mock.Anything).Return([]*domain.Template{templateWithVersions(1)}, nil)

	w := doJSON(r, "GET", "/api/v1/template-registry/templates", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, float64(1), resp["total"])
}

func TestChangeStatus_Bulk(t *testing.T) {
	repo, _, r := setupRouter()
	tpl := templateWithVersions(2)

	repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)
	repo.On("Update", mock.Anything, tpl).Return(true, nil)

	w := doJSON(r, "PATCH", "/api/v1/template-registry/templates/"+tpl.ID().String()+"/status", gin.H{
		"is_active": false,
		"reason":    "retired",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, false, resp["is_active"])
}

func TestChangeStatus_VersionNotFound(t *testing.T) {
	repo, _, r := setupRouter()
	tpl := templateWithVersions(1)

	repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)

	w := doJSON(r, "PATCH",
		"/api/v1/template-registry/templates/"+tpl.ID().String()+"/status?versionId="+uuid.NewString(),
		gin.H{"is_active": false})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirmUpload(t *testing.T) {
	repo, _, r := setupRouter()
	tpl := templateWithVersions(1)
	v := tpl.GetVersionByNumber(1)

	repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)
	repo.On("Update", mock.Anything, tpl).Return(true, nil)

	w := doJSON(r, "PATCH",
		"/api/v1/template-registry/templates/"+tpl.ID().String()+"/versions/"+v.ID().String()+"/file",
		gin.H{"file_size": 4096})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(4096), v.FileSize())
}

func TestRemoveTemplate(t *testing.T) {
	repo, store, r := setupRouter()
	tpl := templateWithVersions(1)

	repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)
	store.On("DeleteKeysByPrefix", mock.Anything, "templates", "contract/").Return(nil)
	repo.On("Delete", mock.Anything, tpl.ID()).Return(true, nil)

	w := doJSON(r, "DELETE", "/api/v1/template-registry/templates/"+tpl.ID().String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRemoveVersion_LastVersion(t *testing.T) {
	repo, _, r := setupRouter()
	tpl := templateWithVersions(1)
	v := tpl.GetVersionByNumber(1)

	repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)

	w := doJSON(r, "DELETE",
		"/api/v1/template-registry/templates/"+tpl.ID().String()+"/versions/"+v.ID().String(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveVersion(t *testing.T) {
	repo, store, r := setupRouter()
	tpl := templateWithVersions(2)
	v1 := tpl.GetVersionByNumber(1)

	repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)
	store.On("DeleteKey", mock.Anything, "templates", v1.StoragePath()).Return(nil)
	repo.On("Update", mock.Anything, tpl).Return(true, nil)

	w := doJSON(r, "DELETE",
		"/api/v1/template-registry/templates/"+tpl.ID().String()+"/versions/"+v1.ID().String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
