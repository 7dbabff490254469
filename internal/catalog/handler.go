package catalog

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"vgmhub/internal/vgmdb"
	"vgmhub/pkg/models"
)

// Handler exposes the catalog store plus the pull-and-persist route
// that bridges the scraper into it.
type Handler struct {
	Repo *Repo
	Svc  *vgmdb.Service
}

func NewHandler(repo *Repo, svc *vgmdb.Service) *Handler {
	return &Handler{Repo: repo, Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/game/:game", h.getGame)   // GET /api/game/:game
	rg.GET("/year/:year", h.getYear)   // GET /api/year/:year
	rg.PUT("/update", h.update)        // PUT /api/update
	rg.POST("/rawadd", h.rawAdd)       // POST /api/rawadd
	rg.DELETE("/delete", h.delete)     // DELETE /api/delete
	rg.POST("/add/:catalog", h.addNew) // POST /api/add/:catalog
}

func (h *Handler) getGame(c *gin.Context) {
	game := c.Param("game")
	e, err := h.Repo.QueryGame(c.Request.Context(), game)
	if err != nil {
		log.Errorf("[catalog] query game %q: %v", game, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if e == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) getYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be an integer"})
		return
	}
	entries, err := h.Repo.QueryYear(c.Request.Context(), year)
	if err != nil {
		log.Errorf("[catalog] query year %d: %v", year, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) update(c *gin.Context) {
	var e models.Entry
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry payload"})
		return
	}
	if err := h.Repo.Update(c.Request.Context(), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		log.Errorf("[catalog] update %q: %v", e.Game, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) rawAdd(c *gin.Context) {
	var e models.Entry
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry payload"})
		return
	}
	if err := h.Repo.Add(c.Request.Context(), e); err != nil {
		log.Errorf("[catalog] raw add %q: %v", e.Game, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) delete(c *gin.Context) {
	var e models.Entry
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry payload"})
		return
	}
	existed, err := h.Repo.Delete(c.Request.Context(), e.YearListened, e.Game)
	if err != nil {
		log.Errorf("[catalog] delete %q: %v", e.Game, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if !existed {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// addNew pulls an album from the source site, converts it and persists
// the result with the caller's rating/description/extras applied.
func (h *Handler) addNew(c *gin.Context) {
	catalog := c.Param("catalog")

	var info models.Info
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid info payload"})
		return
	}
	if info.Description == "" {
		info.Description = "No Description"
	}

	rec, _ := h.Svc.Load(c.Request.Context(), catalog, vgmdb.LoadOptions{})
	entry, err := vgmdb.ToEntry(rec, info, 0)
	if err != nil {
		log.Errorf("[catalog] convert %s: %v", catalog, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error converting vgmdb page to catalog entry"})
		return
	}

	if err := h.Repo.Add(c.Request.Context(), entry); err != nil {
		log.Errorf("[catalog] add %s: %v", catalog, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, entry)
}
