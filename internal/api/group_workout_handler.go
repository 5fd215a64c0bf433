package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/service"
)

type GroupWorkoutHandler struct {
	groupService service.GroupWorkoutService
	errs         errorResponder
}

func NewGroupWorkoutHandler(groupService service.GroupWorkoutService, errs errorResponder) *GroupWorkoutHandler {
	return &GroupWorkoutHandler{groupService: groupService, errs: errs}
}

// CreateGroupWorkoutRequest accepts trainer_id as a JSON number or a numeric
// string; the service reports anything else as invalid.
type CreateGroupWorkoutRequest struct {
	Name         string                           `json:"name"`
	TrainerID    json.Number                      `json:"trainer_id"`
	Date         *time.Time                       `json:"date"`
	Notes        *string                          `json:"notes"`
	Level        *string                          `json:"level"`
	Duration     *int                             `json:"duration"`
	Exercises    []domain.GroupWorkoutExercise    `json:"exercises"`
	Participants []domain.GroupWorkoutParticipant `json:"participants"`
}

type EditGroupWorkoutRequest struct {
	Name      *string                       `json:"name"`
	TrainerID json.Number                   `json:"trainer_id"`
	Date      *time.Time                    `json:"date"`
	Notes     *string                       `json:"notes"`
	Level     *string                       `json:"level"`
	Duration  *int                          `json:"duration"`
	Exercises []domain.GroupWorkoutExercise `json:"exercises"`
}

type FinishGroupWorkoutRequest struct {
	UserID int64 `json:"user_id" binding:"omitempty,gt=0"`
	domain.Actuals
}

// CreateGroupWorkout godoc
// @Summary Create a group workout and assign it to its participants
// @Tags GroupWorkouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body CreateGroupWorkoutRequest true "Group workout"
// @Success 201 {object} gin.H "{message, groupWorkout}"
// @Failure 400 {object} ErrorResponse "Missing name, trainer_id or exercises"
// @Failure 403 {object} ErrorResponse "Not a trainer"
// @Router /group-workouts [post]
func (h *GroupWorkoutHandler) CreateGroupWorkout(c *gin.Context) {
	var req CreateGroupWorkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	workout, err := h.groupService.CreateGroupWorkout(c.Request.Context(), service.CreateGroupWorkoutInput{
		Name:         req.Name,
		TrainerID:    req.TrainerID.String(),
		Date:         req.Date,
		Notes:        req.Notes,
		Level:        req.Level,
		Duration:     req.Duration,
		Exercises:    req.Exercises,
		Participants: req.Participants,
	})
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Group workout created successfully.", "groupWorkout": workout})
}

// EditGroupWorkout godoc
// @Summary Create a new version of a group workout
// @Description The workout at id is left untouched; assignments move to the new version.
// @Tags GroupWorkouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group workout ID"
// @Param changes body EditGroupWorkoutRequest true "Fields to change"
// @Success 201 {object} gin.H "{message, groupWorkout}"
// @Failure 404 {object} ErrorResponse "Group workout not found"
// @Router /group-workouts/edit/{id} [post]
func (h *GroupWorkoutHandler) EditGroupWorkout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req EditGroupWorkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	version, err := h.groupService.EditGroupWorkout(c.Request.Context(), id, service.EditGroupWorkoutInput{
		Name:      req.Name,
		TrainerID: req.TrainerID.String(),
		Date:      req.Date,
		Notes:     req.Notes,
		Level:     req.Level,
		Duration:  req.Duration,
		Exercises: req.Exercises,
	})
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Workout updated successfully.", "groupWorkout": version})
}

// FinishGroupWorkout godoc
// @Summary Mark a group workout as completed
// @Tags GroupWorkouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group workout ID"
// @Param actuals body FinishGroupWorkoutRequest false "Performance; user_id defaults to the caller"
// @Success 201 {object} domain.CompletedGroupWorkout
// @Failure 404 {object} ErrorResponse "Group workout not found"
// @Failure 409 {object} ErrorResponse "Already completed"
// @Router /group-workouts/finish/{id} [post]
func (h *GroupWorkoutHandler) FinishGroupWorkout(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req FinishGroupWorkoutRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	completed, err := h.groupService.FinishGroupWorkout(c.Request.Context(), caller, id, req.UserID, req.Actuals)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Workout completed successfully.", "completed": completed})
}

// GetGroupWorkoutDetails godoc
// @Summary Group workout with exercises and participants
// @Tags GroupWorkouts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group workout ID"
// @Success 200 {object} domain.GroupWorkoutDetails
// @Failure 404 {object} ErrorResponse "Group workout not found"
// @Router /group-workouts/{id} [get]
func (h *GroupWorkoutHandler) GetGroupWorkoutDetails(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	details, err := h.groupService.GetGroupWorkoutDetails(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetGroupWorkouts godoc
// @Summary List group workouts, newest first
// @Tags GroupWorkouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.GroupWorkout
// @Router /group-workouts [get]
func (h *GroupWorkoutHandler) GetGroupWorkouts(c *gin.Context) {
	h.list(c, h.groupService.ListGroupWorkouts)
}

// GetWorkoutsByLevel godoc
// @Summary Group workouts of a level, or all of them grouped by level
// @Tags GroupWorkouts
// @Produce json
// @Security BearerAuth
// @Param level query string false "Level"
// @Success 200 {array} domain.GroupWorkout
// @Router /group-workouts/level [get]
func (h *GroupWorkoutHandler) GetWorkoutsByLevel(c *gin.Context) {
	level := c.Query("level")
	if level == "" {
		groups, err := h.groupService.GroupByLevel(c.Request.Context())
		if err != nil {
			h.errs.respond(c, err)
			return
		}
		c.JSON(http.StatusOK, groups)
		return
	}
	workouts, err := h.groupService.ListByLevel(c.Request.Context(), level)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetYourWorkouts godoc
// @Summary Group workouts authored by the caller
// @Tags GroupWorkouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.GroupWorkout
// @Router /group-workouts/your [get]
func (h *GroupWorkoutHandler) GetYourWorkouts(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	workouts, err := h.groupService.ListYours(c.Request.Context(), caller.UserID)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetLast10Workouts godoc
// @Summary The ten latest public group workouts
// @Tags GroupWorkouts
// @Produce json
// @Success 200 {array} domain.GroupWorkout
// @Router /group-workouts/last10 [get]
func (h *GroupWorkoutHandler) GetLast10Workouts(c *gin.Context) {
	h.list(c, h.groupService.ListLast10)
}

// GetMostUsedWorkouts godoc
// @Summary The ten most completed group workouts
// @Tags GroupWorkouts
// @Produce json
// @Success 200 {array} domain.GroupWorkout
// @Router /group-workouts/most-used [get]
func (h *GroupWorkoutHandler) GetMostUsedWorkouts(c *gin.Context) {
	h.list(c, h.groupService.ListMostUsed)
}

// SearchWorkouts godoc
// @Summary Search group workouts by name
// @Tags GroupWorkouts
// @Produce json
// @Security BearerAuth
// @Param query query string true "Part of the name"
// @Success 200 {array} domain.GroupWorkout
// @Failure 400 {object} ErrorResponse "Missing query"
// @Router /group-workouts/search [get]
func (h *GroupWorkoutHandler) SearchWorkouts(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		query = c.Query("q")
	}
	workouts, err := h.groupService.Search(c.Request.Context(), query)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetWorkoutHistory godoc
// @Summary Version chain of a group workout, newest first
// @Tags GroupWorkouts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group workout ID"
// @Success 200 {array} domain.GroupWorkout
// @Failure 404 {object} ErrorResponse "Group workout not found"
// @Router /group-workouts/history/{id} [get]
func (h *GroupWorkoutHandler) GetWorkoutHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	chain, err := h.groupService.GetHistory(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, chain)
}

func (h *GroupWorkoutHandler) list(c *gin.Context, fetch func(ctx context.Context) ([]domain.GroupWorkout, error)) {
	workouts, err := fetch(c.Request.Context())
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}
