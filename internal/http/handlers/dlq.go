package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"opshub/internal/repositories"
)

// DLQHandler is the dead-letter queue viewer: list, inspect, replay, delete,
// purge. The queue's retry engine lives outside this service; replaying only
// marks a message for redelivery.
type DLQHandler struct {
	Repo repositories.DLQRepository
}

// Mount registers the DLQ routes on g.
func (h DLQHandler) Mount(g *gin.RouterGroup) {
	grp := g.Group("/dlq")
	grp.GET("", h.list)
	grp.GET("/:id", h.get)
	grp.POST("/:id/replay", h.replay)
	grp.DELETE("", h.remove)
	grp.POST("/purge", h.purge)
}

func (h DLQHandler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filters := map[string]string{}
	for _, key := range []string{"queue", "status"} {
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

	items, total, err := h.Repo.List(params)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondList(c, "messages", items, total, params.Page, params.PageSize)
}

func (h DLQHandler) get(c *gin.Context) {
	msg, err := h.Repo.Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

func (h DLQHandler) replay(c *gin.Context) {
	if err := h.Repo.Replay(c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h DLQHandler) remove(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		RespondError(c, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h DLQHandler) purge(c *gin.Context) {
	n, err := h.Repo.Purge()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "purged": n})
}
