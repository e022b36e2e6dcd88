package controller

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"verkefnalisti/internal/cache"
	"verkefnalisti/internal/models"
	"verkefnalisti/internal/queue"
	"verkefnalisti/internal/validation"
	"verkefnalisti/internal/view"
	"verkefnalisti/pkg/logger"
)

// User-facing messages. Store detail stays in the logs.
const (
	errTitle         = "Villa"
	msgDBUnavailable = "Tókst ekki að tengjast gagnagrunni."
	msgListFailed    = "Villa við að sækja verkefni úr gagnagrunni."
	msgCreateFailed  = "Villa við að búa til verkefni."
	msgUpdateFailed  = "Villa við að uppfæra verkefni."
	msgDeleteFailed  = "Villa við að eyða verkefni."
	msgClearFailed   = "Villa við að eyða kláruðum verkefnum."
)

// TodoStore is the persistence contract the handlers need.
type TodoStore interface {
	EnsureSchema(ctx context.Context) error
	List(ctx context.Context) ([]models.Todo, error)
	Create(ctx context.Context, title string) (*models.Todo, error)
	Update(ctx context.Context, id int64, title string, finished bool) (*models.Todo, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteFinished(ctx context.Context) (int64, error)
}

// Todos holds the per-route handlers. Requests are stateless except for the
// shared store, the schema-readiness flag and the list generation counter.
type Todos struct {
	store     TodoStore
	ready     atomic.Bool
	listGroup singleflight.Group
	listGen   atomic.Int64
}

// Cache operations are indirected so tests can substitute an in-memory cache.
var (
	cacheGet        = cache.GetTodos
	cacheSet        = cache.SetTodos
	cacheInvalidate = cache.InvalidateTodos
)

// NewTodos creates the handler set over the given store.
func NewTodos(store TodoStore) *Todos {
	return &Todos{store: store}
}

// ensureReady runs the idempotent schema setup until it succeeds once. A
// failed attempt is never cached, so a transient outage at startup does not
// wedge the handlers.
func (h *Todos) ensureReady(ctx context.Context) bool {
	if h.ready.Load() {
		return true
	}
	if err := h.store.EnsureSchema(ctx); err != nil {
		return false
	}
	h.ready.Store(true)
	return true
}

// fetchList returns the ordered todo list, cache first. Concurrent misses
// collapse onto a single database query. A snapshot is cached only while no
// mutation has landed since it was read; a mutation racing the write is
// answered by invalidating again, so a stale list can never outlive one.
func (h *Todos) fetchList(ctx context.Context) ([]models.Todo, error) {
	if todos, ok := cacheGet(ctx); ok {
		return todos, nil
	}
	v, err, _ := h.listGroup.Do("todos", func() (interface{}, error) {
		// Detached context: the shared flight must not die with one caller.
		ctx := context.Background()
		gen := h.listGen.Load()
		todos, err := h.store.List(ctx)
		if err != nil {
			return nil, err
		}
		if h.listGen.Load() == gen {
			cacheSet(ctx, todos)
			if h.listGen.Load() != gen {
				cacheInvalidate(ctx)
			}
		}
		return todos, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Todo), nil
}

// listOrEmpty fetches the current list for a re-rendered form error, falling
// back to an empty collection so the page is never blank.
func (h *Todos) listOrEmpty(ctx context.Context) []models.Todo {
	todos, err := h.fetchList(ctx)
	if err != nil {
		return nil
	}
	return todos
}

// afterMutation bumps the list generation and invalidates the cache before
// the redirect is written, then publishes a best-effort change event.
func (h *Todos) afterMutation(ctx context.Context, event *models.TodoEvent) {
	h.listGen.Add(1)
	cacheInvalidate(ctx)
	event.OccurredAt = time.Now()
	if err := queue.PublishTodoEvent(ctx, event); err != nil {
		logger.Warn(ctx, "Publish todo event failed", "error", err, "action", event.Action)
	}
}

// ListPage handles GET /.
func (h *Todos) ListPage(c *gin.Context) {
	ctx := c.Request.Context()
	if !h.ensureReady(ctx) {
		view.Error(c, http.StatusInternalServerError, errTitle, msgDBUnavailable)
		return
	}
	todos, err := h.fetchList(ctx)
	if err != nil {
		view.Error(c, http.StatusInternalServerError, errTitle, msgListFailed)
		return
	}
	view.List(c, http.StatusOK, todos, "")
}

// Add handles POST /add.
func (h *Todos) Add(c *gin.Context) {
	ctx := c.Request.Context()
	if !h.ensureReady(ctx) {
		view.Error(c, http.StatusInternalServerError, errTitle, msgDBUnavailable)
		return
	}
	title, err := validation.ValidateTitle(c.PostForm("title"))
	if err != nil {
		view.List(c, http.StatusBadRequest, h.listOrEmpty(ctx), err.Error())
		return
	}
	todo, err := h.store.Create(ctx, title)
	if err != nil {
		view.Error(c, http.StatusInternalServerError, errTitle, msgCreateFailed)
		return
	}
	h.afterMutation(ctx, &models.TodoEvent{Action: "created", Todo: todo})
	c.Redirect(http.StatusSeeOther, "/")
}

// Update handles POST /update/:id.
func (h *Todos) Update(c *gin.Context) {
	ctx := c.Request.Context()
	if !h.ensureReady(ctx) {
		view.Error(c, http.StatusInternalServerError, errTitle, msgDBUnavailable)
		return
	}
	id, err := validation.ParseIDParam(c.Param("id"))
	if err != nil {
		view.Error(c, http.StatusBadRequest, errTitle, err.Error())
		return
	}
	title, err := validation.ValidateTitle(c.PostForm("title"))
	if err != nil {
		view.List(c, http.StatusBadRequest, h.listOrEmpty(ctx), err.Error())
		return
	}
	finished := validation.ParseFinished(c.PostForm("finished"))
	todo, err := h.store.Update(ctx, id, title, finished)
	if err != nil {
		// A missing row and a store outage get the same answer here.
		view.Error(c, http.StatusInternalServerError, errTitle, msgUpdateFailed)
		return
	}
	h.afterMutation(ctx, &models.TodoEvent{Action: "updated", Todo: todo})
	c.Redirect(http.StatusSeeOther, "/")
}

// Delete handles POST /delete/:id.
func (h *Todos) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	if !h.ensureReady(ctx) {
		view.Error(c, http.StatusInternalServerError, errTitle, msgDBUnavailable)
		return
	}
	id, err := validation.ParseIDParam(c.Param("id"))
	if err != nil {
		view.Error(c, http.StatusBadRequest, errTitle, err.Error())
		return
	}
	if _, err := h.store.Delete(ctx, id); err != nil {
		view.Error(c, http.StatusInternalServerError, errTitle, msgDeleteFailed)
		return
	}
	h.afterMutation(ctx, &models.TodoEvent{Action: "deleted", Todo: &models.Todo{ID: id}})
	c.Redirect(http.StatusSeeOther, "/")
}

// DeleteFinished handles POST /delete/finished.
func (h *Todos) DeleteFinished(c *gin.Context) {
	ctx := c.Request.Context()
	if !h.ensureReady(ctx) {
		view.Error(c, http.StatusInternalServerError, errTitle, msgDBUnavailable)
		return
	}
	count, err := h.store.DeleteFinished(ctx)
	if err != nil {
		view.Error(c, http.StatusInternalServerError, errTitle, msgClearFailed)
		return
	}
	h.afterMutation(ctx, &models.TodoEvent{Action: "cleared", Count: count})
	c.Redirect(http.StatusSeeOther, "/")
}
