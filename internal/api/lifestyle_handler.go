package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/service"
)

type LifestyleHandler struct {
	lifestyleService service.LifestyleService
	errs             errorResponder
}

func NewLifestyleHandler(lifestyleService service.LifestyleService, errs errorResponder) *LifestyleHandler {
	return &LifestyleHandler{lifestyleService: lifestyleService, errs: errs}
}

type LifestyleRequest struct {
	Stress   *int     `json:"stress" binding:"omitempty,gte=0"`
	Sleep    *float64 `json:"sleep" binding:"omitempty,gte=0"`
	Soreness *int     `json:"soreness" binding:"omitempty,gte=0"`
	Calories *int     `json:"calories" binding:"omitempty,gte=0"`
	Weight   *float64 `json:"weight" binding:"omitempty,gte=0"`
	Note     *string  `json:"note"`
}

// GetLifestyleData godoc
// @Summary Lifestyle entries of a user, newest first
// @Tags Lifestyle
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {array} domain.LifestyleEntry
// @Failure 403 {object} ErrorResponse "Not your data"
// @Router /lifestyle-data/{user_id} [get]
func (h *LifestyleHandler) GetLifestyleData(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	entries, err := h.lifestyleService.ListEntries(c.Request.Context(), caller, userID)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// AddLifestyleData godoc
// @Summary Add a lifestyle entry
// @Description Without user_id in the path the entry belongs to the caller.
// @Tags Lifestyle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path int false "User ID"
// @Param entry body LifestyleRequest true "Check-in"
// @Success 201 {object} gin.H "{message, data}"
// @Router /lifestyle-data/{user_id} [post]
func (h *LifestyleHandler) AddLifestyleData(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	userID := caller.UserID
	if c.Param("user_id") != "" {
		if userID, ok = parseIDParam(c, "user_id"); !ok {
			return
		}
	}
	var req LifestyleRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.lifestyleService.AddEntry(c.Request.Context(), caller, userID, domain.LifestyleEntry{
		Stress:   req.Stress,
		Sleep:    req.Sleep,
		Soreness: req.Soreness,
		Calories: req.Calories,
		Weight:   req.Weight,
		Note:     req.Note,
	})
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Lifestyle data added successfully", "data": entry})
}
