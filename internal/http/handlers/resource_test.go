package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opshub/internal/domain"
	"opshub/internal/domain/models"
	"opshub/internal/repositories"
)

// fakePromptStore records calls and serves canned data.
type fakePromptStore struct {
	listParams repositories.ListParams
	items      []models.Prompt
	total      int
	listErr    error

	created   *models.Prompt
	createErr error

	deletedID int64
	deleteErr error

	statusID    int64
	statusValue any
	statusErr   error
}

func (s *fakePromptStore) List(p repositories.ListParams) ([]models.Prompt, int, error) {
	s.listParams = p
	return s.items, s.total, s.listErr
}

func (s *fakePromptStore) Get(id int64) (models.Prompt, error) {
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return models.Prompt{}, domain.NotFoundError{Resource: "prompt"}
}

func (s *fakePromptStore) Create(item models.Prompt) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.created = &item
	return 42, nil
}

func (s *fakePromptStore) Update(models.Prompt) error { return nil }

func (s *fakePromptStore) Delete(id int64) error {
	s.deletedID = id
	return s.deleteErr
}

func (s *fakePromptStore) SetStatus(id int64, status any) error {
	s.statusID = id
	s.statusValue = status
	return s.statusErr
}

func newPromptRouter(store *fakePromptStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/api/admin")
	Resource[models.Prompt]{
		Name:       "prompts",
		Singular:   "prompt",
		Store:      store,
		FilterKeys: []string{"category", "active"},
	}.Mount(grp)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListEnvelopeShape(t *testing.T) {
	store := &fakePromptStore{
		items: []models.Prompt{{ID: 1, Name: "welcome"}, {ID: 2, Name: "digest"}},
		total: 25,
	}
	r := newPromptRouter(store)

	w := doJSON(r, http.MethodGet, "/api/admin/prompts?page=2&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success    bool            `json:"success"`
		Prompts    []models.Prompt `json:"prompts"`
		Pagination struct {
			Total    int `json:"total"`
			Page     int `json:"page"`
			PageSize int `json:"pageSize"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Len(t, body.Prompts, 2)
	assert.Equal(t, 25, body.Pagination.Total)
	assert.Equal(t, 2, body.Pagination.Page)
	assert.Equal(t, 10, body.Pagination.PageSize)
}

func TestListEchoesNormalizedPagination(t *testing.T) {
	store := &fakePromptStore{
		items: []models.Prompt{{ID: 1, Name: "welcome"}},
		total: 1,
	}
	r := newPromptRouter(store)

	// limit=0 serves the default page size; the envelope must say so, or a
	// client computing ceil(total/pageSize) from it divides by zero
	w := doJSON(r, http.MethodGet, "/api/admin/prompts?page=0&limit=0", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Pagination struct {
			Page     int `json:"page"`
			PageSize int `json:"pageSize"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Pagination.Page)
	assert.Equal(t, 20, body.Pagination.PageSize)
	assert.Equal(t, 20, store.listParams.PageSize)

	w = doJSON(r, http.MethodGet, "/api/admin/prompts?limit=500", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 200, body.Pagination.PageSize)
	assert.Equal(t, 200, store.listParams.PageSize)
}

func TestListForwardsOnlyDeclaredFilters(t *testing.T) {
	store := &fakePromptStore{}
	r := newPromptRouter(store)

	doJSON(r, http.MethodGet, "/api/admin/prompts?category=pillar&q=road&bogus=1", nil)

	assert.Equal(t, "road", store.listParams.Search)
	assert.Equal(t, map[string]string{"category": "pillar"}, store.listParams.Filters)
}

func TestCreateReturnsStoredItem(t *testing.T) {
	store := &fakePromptStore{items: []models.Prompt{{ID: 42, Name: "welcome"}}}
	r := newPromptRouter(store)

	w := doJSON(r, http.MethodPost, "/api/admin/prompts", models.Prompt{Name: "welcome"})
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "prompt")
	require.NotNil(t, store.created)
	assert.Equal(t, "welcome", store.created.Name)
}

func TestCreateConflictMapsTo409(t *testing.T) {
	store := &fakePromptStore{createErr: domain.ConflictError{Msg: "a prompt with this name already exists"}}
	r := newPromptRouter(store)

	w := doJSON(r, http.MethodPost, "/api/admin/prompts", models.Prompt{Name: "welcome"})
	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "a prompt with this name already exists", body.Error)
}

func TestGetMissingMapsTo404(t *testing.T) {
	r := newPromptRouter(&fakePromptStore{})
	w := doJSON(r, http.MethodGet, "/api/admin/prompts/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUsesQueryID(t *testing.T) {
	store := &fakePromptStore{}
	r := newPromptRouter(store)

	w := doJSON(r, http.MethodDelete, "/api/admin/prompts?id=7", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), store.deletedID)
}

func TestDeleteWithoutIDIsBadRequest(t *testing.T) {
	store := &fakePromptStore{}
	r := newPromptRouter(store)

	w := doJSON(r, http.MethodDelete, "/api/admin/prompts", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, store.deletedID)
}

func TestPatchAcceptsStringEncodedID(t *testing.T) {
	store := &fakePromptStore{}
	r := newPromptRouter(store)

	// generic clients key records by string, so the id arrives quoted
	w := doJSON(r, http.MethodPatch, "/api/admin/prompts", map[string]any{"id": "5", "status": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), store.statusID)
	assert.Equal(t, false, store.statusValue)
}

func TestPatchAcceptsStringStatus(t *testing.T) {
	store := &fakePromptStore{}
	r := newPromptRouter(store)

	w := doJSON(r, http.MethodPatch, "/api/admin/prompts", map[string]any{"id": 5, "status": "published"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "published", store.statusValue)
}

func TestPatchWithoutStatusIsBadRequest(t *testing.T) {
	store := &fakePromptStore{}
	r := newPromptRouter(store)

	w := doJSON(r, http.MethodPatch, "/api/admin/prompts", map[string]any{"id": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, store.statusID)
}

func TestPatchValidationMapsTo400(t *testing.T) {
	store := &fakePromptStore{statusErr: domain.ValidationError{Field: "status", Msg: "must be a boolean"}}
	r := newPromptRouter(store)

	w := doJSON(r, http.MethodPatch, "/api/admin/prompts", map[string]any{"id": 5, "status": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
