package music

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"otogehub/pkg/cache"
	"otogehub/pkg/models"
)

// SongView is the game-neutral shape the API serves for both catalogs.
type SongView struct {
	Game     string `json:"game"`
	Key      string `json:"key"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Artist   string `json:"artist"`
	Image    string `json:"image,omitempty"`
	Version  string `json:"version,omitempty"`
}

type SongDetail struct {
	SongView
	Charts []models.ChartLevel `json:"charts"`
}

const catalogTTL = 5 * time.Minute

type Handler struct {
	Repo   *Repo
	Songs  *cache.Cache[[]SongView]
	Detail *cache.Cache[SongDetail]
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{
		Repo:   repo,
		Songs:  cache.New[[]SongView](8),
		Detail: cache.New[SongDetail](1024),
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:game", h.list)          // GET /songs/chunithm
	rg.GET("/:game/:key", h.getByKey) // GET /songs/chunithm/2663
}

func (h *Handler) list(c *gin.Context) {
	game := c.Param("game")
	if game != models.GameChuni && game != models.GameMai {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown game"})
		return
	}

	songs, err := h.catalog(c, game)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	category := strings.TrimSpace(c.Query("category"))

	var filtered []SongView
	for _, s := range songs {
		if q != "" && !strings.Contains(strings.ToLower(s.Title), q) &&
			!strings.Contains(strings.ToLower(s.Artist), q) {
			continue
		}
		if category != "" && s.Category != category {
			continue
		}
		filtered = append(filtered, s)
	}

	limit := parseInt(c.Query("limit"), 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := parseInt(c.Query("offset"), 0)
	if offset < 0 {
		offset = 0
	}

	total := len(filtered)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  filtered[offset:end],
	})
}

func (h *Handler) getByKey(c *gin.Context) {
	game := c.Param("game")
	key := c.Param("key")
	if game != models.GameChuni && game != models.GameMai {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown game"})
		return
	}

	cacheKey := game + "/" + key
	if d, ok := h.Detail.Get(cacheKey); ok {
		c.JSON(http.StatusOK, d)
		return
	}

	songs, err := h.catalog(c, game)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}

	var view *SongView
	for i := range songs {
		if songs[i].Key == key {
			view = &songs[i]
			break
		}
	}
	if view == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	charts, err := h.Repo.LevelsForSong(c.Request.Context(), game, key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}

	detail := SongDetail{SongView: *view, Charts: charts}
	h.Detail.Set(cacheKey, detail, catalogTTL)
	c.JSON(http.StatusOK, detail)
}

// catalog loads the full song list for a game through the cache; catalogs
// are small and change only when a fetch job runs.
func (h *Handler) catalog(c *gin.Context, game string) ([]SongView, error) {
	if songs, ok := h.Songs.Get(game); ok {
		return songs, nil
	}

	var out []SongView
	switch game {
	case models.GameChuni:
		rows, err := h.Repo.ListChuniSongs(c.Request.Context())
		if err != nil {
			return nil, err
		}
		for _, s := range rows {
			out = append(out, SongView{
				Game:     game,
				Key:      strconv.Itoa(s.ID),
				Title:    s.Title,
				Category: s.Category,
				Artist:   s.Artist,
				Image:    s.Image,
			})
		}
	case models.GameMai:
		rows, err := h.Repo.ListMaiSongs(c.Request.Context())
		if err != nil {
			return nil, err
		}
		for _, s := range rows {
			out = append(out, SongView{
				Game:     game,
				Key:      s.Title,
				Title:    s.Title,
				Category: s.Category,
				Artist:   s.Artist,
				Image:    s.Image,
				Version:  s.Version,
			})
		}
	}

	h.Songs.Set(game, out, catalogTTL)
	return out, nil
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
