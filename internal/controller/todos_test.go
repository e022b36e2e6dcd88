package controller_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verkefnalisti/internal/controller"
	"verkefnalisti/internal/models"
	"verkefnalisti/internal/routes"
)

type updateCall struct {
	id       int64
	title    string
	finished bool
}

type stubStore struct {
	ensureErr   error
	ensureCalls int
	todos       []models.Todo
	listErr     error
	created     []string
	createErr   error
	updates     []updateCall
	updateErr   error
	deleted     []int64
	deleteErr   error
	clearCount  int64
	clearErr    error
}

func (s *stubStore) EnsureSchema(ctx context.Context) error {
	s.ensureCalls++
	return s.ensureErr
}

func (s *stubStore) List(ctx context.Context) ([]models.Todo, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.todos, nil
}

func (s *stubStore) Create(ctx context.Context, title string) (*models.Todo, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, title)
	return &models.Todo{ID: int64(len(s.created)), Title: title, Created: time.Now()}, nil
}

func (s *stubStore) Update(ctx context.Context, id int64, title string, finished bool) (*models.Todo, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.updates = append(s.updates, updateCall{id: id, title: title, finished: finished})
	return &models.Todo{ID: id, Title: title, Finished: finished, Created: time.Now()}, nil
}

func (s *stubStore) Delete(ctx context.Context, id int64) (bool, error) {
	if s.deleteErr != nil {
		return false, s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return true, nil
}

func (s *stubStore) DeleteFinished(ctx context.Context) (int64, error) {
	if s.clearErr != nil {
		return 0, s.clearErr
	}
	return s.clearCount, nil
}

func newRouter(store *stubStore) *gin.Engine {
	return routes.Router(controller.NewTodos(store))
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func doPost(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	return w
}

func TestListPage(t *testing.T) {
	now := time.Now()
	store := &stubStore{todos: []models.Todo{
		{ID: 2, Title: "Kaupa mjólk", Created: now},
		{ID: 1, Title: "Þvo þvott", Finished: true, Created: now.Add(-time.Hour)},
	}}
	w := doGet(newRouter(store), "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kaupa mjólk")
	assert.Contains(t, w.Body.String(), "Þvo þvott")
	assert.Contains(t, w.Body.String(), "Eyða öllum kláruðum")
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestListPageHidesClearButtonWithoutFinished(t *testing.T) {
	store := &stubStore{todos: []models.Todo{{ID: 1, Title: "Kaupa mjólk"}}}
	w := doGet(newRouter(store), "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Eyða öllum kláruðum")
}

func TestListPageEmpty(t *testing.T) {
	w := doGet(newRouter(&stubStore{}), "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Engin verkefni til staðar")
}

func TestListPageStoreFailure(t *testing.T) {
	store := &stubStore{listErr: errors.New("connection refused")}
	w := doGet(newRouter(store), "/")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Villa við að sækja verkefni úr gagnagrunni.")
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestAddTrimsTitleAndRedirects(t *testing.T) {
	store := &stubStore{}
	w := doPost(newRouter(store), "/add", url.Values{"title": {"  test  "}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	require.Len(t, store.created, 1)
	assert.Equal(t, "test", store.created[0])
}

func TestAddEmptyTitleRerendersListWithError(t *testing.T) {
	store := &stubStore{todos: []models.Todo{{ID: 1, Title: "Kaupa mjólk"}}}
	w := doPost(newRouter(store), "/add", url.Values{"title": {"   "}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Titill má ekki vera tómur.")
	assert.Contains(t, w.Body.String(), "Kaupa mjólk")
	assert.Empty(t, store.created)
}

func TestAddEmptyTitleWithListFailureStillRenders(t *testing.T) {
	store := &stubStore{listErr: errors.New("boom")}
	w := doPost(newRouter(store), "/add", url.Values{"title": {""}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Titill má ekki vera tómur.")
	assert.Contains(t, w.Body.String(), "Engin verkefni til staðar")
}

func TestAddTooLongTitle(t *testing.T) {
	store := &stubStore{}
	w := doPost(newRouter(store), "/add", url.Values{"title": {strings.Repeat("x", 256)}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Titill má vera að hámarki 255 stafir.")
	assert.Empty(t, store.created)
}

func TestAddStoreFailure(t *testing.T) {
	store := &stubStore{createErr: errors.New("boom")}
	w := doPost(newRouter(store), "/add", url.Values{"title": {"test"}})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Villa við að búa til verkefni.")
}

func TestUpdate(t *testing.T) {
	store := &stubStore{}
	w := doPost(newRouter(store), "/update/7", url.Values{
		"title":    {" Kaupa mjólk "},
		"finished": {"on"},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	require.Len(t, store.updates, 1)
	assert.Equal(t, updateCall{id: 7, title: "Kaupa mjólk", finished: true}, store.updates[0])
}

func TestUpdateUncheckedCheckboxMeansUnfinished(t *testing.T) {
	store := &stubStore{}
	w := doPost(newRouter(store), "/update/7", url.Values{"title": {"test"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.Len(t, store.updates, 1)
	assert.False(t, store.updates[0].finished)
}

func TestUpdateInvalidID(t *testing.T) {
	for _, id := range []string{"0", "-1", "abc", "1.5"} {
		store := &stubStore{}
		w := doPost(newRouter(store), "/update/"+id, url.Values{"title": {"test"}})

		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", id)
		assert.Contains(t, w.Body.String(), "Ógilt auðkenni.")
		assert.Empty(t, store.updates)
	}
}

func TestUpdateEmptyTitleRerendersListWithError(t *testing.T) {
	store := &stubStore{todos: []models.Todo{{ID: 7, Title: "Kaupa mjólk"}}}
	w := doPost(newRouter(store), "/update/7", url.Values{"title": {""}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Titill má ekki vera tómur.")
	assert.Contains(t, w.Body.String(), "Kaupa mjólk")
	assert.Empty(t, store.updates)
}

func TestUpdateMissingRowIsStoreFailure(t *testing.T) {
	store := &stubStore{updateErr: sql.ErrNoRows}
	w := doPost(newRouter(store), "/update/999999", url.Values{"title": {"test"}})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Villa við að uppfæra verkefni.")
}

func TestDelete(t *testing.T) {
	store := &stubStore{}
	w := doPost(newRouter(store), "/delete/3", nil)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, []int64{3}, store.deleted)
}

func TestDeleteInvalidID(t *testing.T) {
	store := &stubStore{}
	w := doPost(newRouter(store), "/delete/0", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Ógilt auðkenni.")
	assert.Empty(t, store.deleted)
}

func TestDeleteStoreFailure(t *testing.T) {
	store := &stubStore{deleteErr: errors.New("boom")}
	w := doPost(newRouter(store), "/delete/3", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Villa við að eyða verkefni.")
}

func TestDeleteFinished(t *testing.T) {
	store := &stubStore{clearCount: 2}
	w := doPost(newRouter(store), "/delete/finished", nil)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Empty(t, store.deleted)
}

func TestDeleteFinishedZeroIsSuccess(t *testing.T) {
	store := &stubStore{clearCount: 0}
	w := doPost(newRouter(store), "/delete/finished", nil)

	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestDeleteFinishedStoreFailure(t *testing.T) {
	store := &stubStore{clearErr: errors.New("boom")}
	w := doPost(newRouter(store), "/delete/finished", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Villa við að eyða kláruðum verkefnum.")
}

func TestUnmatchedPath(t *testing.T) {
	w := doGet(newRouter(&stubStore{}), "/nope")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Síða fannst ekki")
}

func TestSchemaSetupRetriesUntilSuccess(t *testing.T) {
	store := &stubStore{ensureErr: errors.New("no connection")}
	router := newRouter(store)

	w := doGet(router, "/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Tókst ekki að tengjast gagnagrunni.")
	assert.Equal(t, 1, store.ensureCalls)

	// A failed attempt is not cached: the next request retries.
	store.ensureErr = nil
	w = doGet(router, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, store.ensureCalls)

	// A successful attempt is remembered.
	w = doGet(router, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, store.ensureCalls)
}
