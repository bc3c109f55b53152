package record

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"otogehub/internal/auth"
	"otogehub/internal/live"
	"otogehub/internal/music"
	"otogehub/pkg/cache"
	"otogehub/pkg/models"
)

const (
	maxScore  = 1010000
	levelsTTL = 5 * time.Minute
)

type Handler struct {
	Repo     *Repo
	Music    *music.Repo
	Hub      *live.Hub
	Versions map[string]string // game -> current dataset version
	Levels   *cache.Cache[[]models.ChartLevel]
}

func NewHandler(repo *Repo, musicRepo *music.Repo, hub *live.Hub, chuniVersion, maiVersion string) *Handler {
	return &Handler{
		Repo:  repo,
		Music: musicRepo,
		Hub:   hub,
		Versions: map[string]string{
			models.GameChuni: chuniVersion,
			models.GameMai:   maiVersion,
		},
		Levels: cache.New[[]models.ChartLevel](4),
	}
}

// RegisterRoutes expects rg to already carry the auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/records", h.upsert)
	rg.GET("/records/:game", h.list)
	rg.GET("/rating/:game", h.rating)
}

type upsertReq struct {
	Game       string `json:"game"`
	SongKey    string `json:"song_key"`
	Sheet      string `json:"sheet"`
	Difficulty string `json:"difficulty"`
	Score      int    `json:"score"`
	ComboMark  string `json:"combo_mark"`
}

func validSheet(game, sheet string) bool {
	switch game {
	case models.GameChuni:
		return sheet == models.SheetStd
	case models.GameMai:
		return sheet == models.SheetStd || sheet == models.SheetDX
	}
	return false
}

func validDifficulty(game, diff string) bool {
	switch diff {
	case models.DiffBasic, models.DiffAdvanced, models.DiffExpert, models.DiffMaster:
		return true
	case models.DiffUltima:
		return game == models.GameChuni
	case models.DiffReMaster:
		return game == models.GameMai
	}
	return false
}

func (h *Handler) upsert(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var req upsertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if req.Game != models.GameChuni && req.Game != models.GameMai {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown game"})
		return
	}
	if req.SongKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "song_key required"})
		return
	}
	if !validSheet(req.Game, req.Sheet) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sheet"})
		return
	}
	if !validDifficulty(req.Game, req.Difficulty) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid difficulty"})
		return
	}
	if req.Score < 0 || req.Score > maxScore {
		c.JSON(http.StatusBadRequest, gin.H{"error": "score out of range"})
		return
	}
	if req.ComboMark != "" && req.Game != models.GameMai {
		c.JSON(http.StatusBadRequest, gin.H{"error": "combo mark only applies to maimai"})
		return
	}

	rec := models.PlayRecord{
		PlayerID:   claims.PlayerID,
		Game:       req.Game,
		SongKey:    req.SongKey,
		Sheet:      req.Sheet,
		Difficulty: req.Difficulty,
		Score:      req.Score,
		ComboMark:  req.ComboMark,
	}

	changed, err := h.Repo.Upsert(c.Request.Context(), rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	if changed && h.Hub != nil {
		h.Hub.BroadcastJSON(live.RecordEvent{
			Type:       live.EventRecordUpdate,
			PlayerID:   rec.PlayerID,
			Game:       rec.Game,
			SongKey:    rec.SongKey,
			Sheet:      rec.Sheet,
			Difficulty: rec.Difficulty,
			Score:      rec.Score,
			At:         time.Now().UTC(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"updated": changed})
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	game := c.Param("game")
	if game != models.GameChuni && game != models.GameMai {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown game"})
		return
	}

	recs, err := h.Repo.ListByPlayer(c.Request.Context(), claims.PlayerID, game)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": len(recs), "items": recs})
}

func (h *Handler) rating(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	game := c.Param("game")
	if game != models.GameChuni && game != models.GameMai {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown game"})
		return
	}

	recs, err := h.Repo.ListByPlayer(c.Request.Context(), claims.PlayerID, game)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rating failed"})
		return
	}

	levels, err := h.levels(c, game)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rating failed"})
		return
	}

	sum, err := BuildSummary(game, recs, levels)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rating failed"})
		return
	}

	c.JSON(http.StatusOK, sum)
}

// levels loads the current version's chart table through the cache; the
// table only changes when a fetch job runs.
func (h *Handler) levels(c *gin.Context, game string) ([]models.ChartLevel, error) {
	if cached, ok := h.Levels.Get(game); ok {
		return cached, nil
	}

	levels, err := h.Music.ListLevels(c.Request.Context(), game, h.Versions[game])
	if err != nil {
		return nil, err
	}
	h.Levels.Set(game, levels, levelsTTL)
	return levels, nil
}
