package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"opshub/internal/repositories"
)

// Store is what a resource handler needs from persistence. SetStatus takes
// the raw toggle value (bool for active-style resources, string for the
// content status enum) and each repository validates its own kind.
type Store[T any] interface {
	List(p repositories.ListParams) ([]T, int, error)
	Get(id int64) (T, error)
	Create(item T) (int64, error)
	Update(item T) error
	Delete(id int64) error
	SetStatus(id int64, status any) error
}

// Resource wires one entity type into the uniform CRUD surface:
//
//	GET    ""        list (page, limit, q, filters)
//	GET    "/:id"    detail
//	POST   ""        create
//	PUT    ""        update (id in body)
//	DELETE ""        delete (?id=)
//	PATCH  ""        status toggle ({id, status} or {id, active})
type Resource[T any] struct {
	// Name is the route segment and the envelope data key, e.g. "prompts".
	Name string
	// Singular is the envelope key for one item, e.g. "prompt".
	Singular string
	Store    Store[T]
	// FilterKeys are the query parameters forwarded as exact filters.
	FilterKeys []string
}

// Mount registers the handlers on g under the resource name.
func (r Resource[T]) Mount(g *gin.RouterGroup) {
	grp := g.Group("/" + r.Name)
	grp.GET("", r.list)
	grp.GET("/:id", r.get)
	grp.POST("", r.create)
	grp.PUT("", r.update)
	grp.DELETE("", r.remove)
	grp.PATCH("", r.patchStatus)
}

func (r Resource[T]) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filters := map[string]string{}
	for _, key := range r.FilterKeys {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			filters[key] = v
		}
	}

	params := repositories.ListParams{
		Page:     page,
		PageSize: limit,
		Search:   strings.TrimSpace(c.Query("q")),
		Filters:  filters,
	}.Normalize()

	items, total, err := r.Store.List(params)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondList(c, r.Name, items, total, params.Page, params.PageSize)
}

func (r Resource[T]) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id")
		return
	}
	item, err := r.Store.Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, r.Singular: item})
}

func (r Resource[T]) create(c *gin.Context) {
	var item T
	if !BindJSONOrError(c, &item) {
		return
	}
	id, err := r.Store.Create(item)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	resp := gin.H{"success": true, "id": id}
	if stored, err := r.Store.Get(id); err == nil {
		resp[r.Singular] = stored
	}
	c.JSON(http.StatusCreated, resp)
}

func (r Resource[T]) update(c *gin.Context) {
	var item T
	if !BindJSONOrError(c, &item) {
		return
	}
	if err := r.Store.Update(item); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (r Resource[T]) remove(c *gin.Context) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Query("id")), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id")
		return
	}
	if err := r.Store.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// flexID tolerates both numeric and string-encoded ids; generic clients key
// records by string.
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*f = flexID(n)
	return nil
}

type statusPatch struct {
	ID     flexID          `json:"id"`
	Status json.RawMessage `json:"status"`
	Active *bool           `json:"active"`
}

// statusValue accepts either {status: <bool|string>} or the narrower
// {active: <bool>} used by boolean-status panels.
func (p statusPatch) statusValue() (any, bool) {
	if p.Active != nil {
		return *p.Active, true
	}
	if len(p.Status) == 0 {
		return nil, false
	}
	var b bool
	if err := json.Unmarshal(p.Status, &b); err == nil {
		return b, true
	}
	var s string
	if err := json.Unmarshal(p.Status, &s); err == nil {
		return s, true
	}
	return nil, false
}

func (r Resource[T]) patchStatus(c *gin.Context) {
	var body statusPatch
	if !BindJSONOrError(c, &body) {
		return
	}
	if body.ID <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id")
		return
	}
	value, ok := body.statusValue()
	if !ok {
		RespondError(c, http.StatusBadRequest, "missing status value")
		return
	}
	if err := r.Store.SetStatus(int64(body.ID), value); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
