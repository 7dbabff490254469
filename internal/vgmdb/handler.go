package vgmdb

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vgmhub/pkg/models"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:catalog", h.get) // GET /api/vgmdb/:catalog
}

// get serves the raw pull for a catalog identifier, or the converted
// catalog entry when convert=1. nocache=1 bypasses the cache and
// ttl=<minutes> overrides the write-through expiry.
func (h *Handler) get(c *gin.Context) {
	catalog := c.Param("catalog")

	opts := LoadOptions{NoCache: c.Query("nocache") == "1"}
	if ttl := parseInt(c.Query("ttl"), 0); ttl > 0 {
		opts.TTL = time.Duration(ttl) * time.Minute
	}

	rec, _ := h.Svc.Load(c.Request.Context(), catalog, opts)

	if c.Query("convert") == "1" {
		entry, err := ToEntry(rec, models.Info{Rating: 0}, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "error in conversion, likely the page was not formatted correctly; check your vgmdb id and try again",
			})
			return
		}
		c.JSON(http.StatusOK, entry)
		return
	}

	c.JSON(http.StatusOK, rec.RawPull())
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
