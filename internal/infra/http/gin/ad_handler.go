package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"freeshare/internal/app/commands"
	"freeshare/internal/app/dto"
	adsapp "freeshare/internal/app/handlers/ads"
	"freeshare/internal/app/queries"
)

type AdHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createAdRequest struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	Images       []string      `json:"images"`
	LocationName string        `json:"locationName"`
	Geo          *dto.GeoPoint `json:"geo"`
	Tags         []string      `json:"tags"`
	IsStreetFind bool          `json:"isStreetFind"`
}

type updateAdRequest struct {
	Title        *string       `json:"title"`
	Description  *string       `json:"description"`
	Category     *string       `json:"category"`
	LocationName *string       `json:"locationName"`
	Tags         []string      `json:"tags"`
	Images       []string      `json:"images"`
	Geo          *dto.GeoPoint `json:"geo"`
	ClearGeo     bool          `json:"clearGeo"`
}

func (h AdHandler) List(c *gin.Context) {
	result, err := queries.Ask[adsapp.ListAdsQuery, []dto.Ad](c.Request.Context(), h.Queries, adsapp.ListAdsQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req createAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := adsapp.CreateAdCommand{
		OwnerID:      user.ID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Images:       req.Images,
		LocationName: req.LocationName,
		Geo:          req.Geo,
		Tags:         req.Tags,
		IsStreetFind: req.IsStreetFind,
	}
	result, err := commands.Dispatch[adsapp.CreateAdCommand, dto.Ad](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AdHandler) Get(c *gin.Context) {
	result, err := queries.Ask[adsapp.GetAdQuery, dto.Ad](c.Request.Context(), h.Queries, adsapp.GetAdQuery{AdID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdHandler) Update(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req updateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := adsapp.UpdateAdCommand{
		AdID:         c.Param("id"),
		ActorID:      user.ID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		LocationName: req.LocationName,
		Tags:         req.Tags,
		Images:       req.Images,
		Geo:          req.Geo,
		ClearGeo:     req.ClearGeo,
	}
	result, err := commands.Dispatch[adsapp.UpdateAdCommand, dto.Ad](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdHandler) Delete(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := adsapp.DeleteAdCommand{AdID: c.Param("id"), ActorID: user.ID}
	if _, err := commands.Dispatch[adsapp.DeleteAdCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdHandler) MyAds(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := queries.Ask[adsapp.ListAdsQuery, []dto.Ad](c.Request.Context(), h.Queries, adsapp.ListAdsQuery{OwnerID: user.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdHandler) GivenAwayCount(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	count, err := queries.Ask[adsapp.CompletedCountQuery, int64](c.Request.Context(), h.Queries, adsapp.CompletedCountQuery{UserID: user.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

var _ AdHTTP = AdHandler{}
