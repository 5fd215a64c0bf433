package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/service"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	errs            errorResponder
}

func NewExerciseHandler(exerciseService service.ExerciseService, errs errorResponder) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, errs: errs}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest defines the expected JSON for creating or updating an exercise.
type ExerciseRequest struct {
	Name                    string   `json:"name"`
	MuscleGroup             string   `json:"muscle_group"`
	Difficulty              string   `json:"difficulty"`
	MenStarterWeight        *float64 `json:"men_starterweight" binding:"omitempty,gte=0"`
	MenIntermediateWeight   *float64 `json:"men_intermediateweight" binding:"omitempty,gte=0"`
	MenAdvancedWeight       *float64 `json:"men_advancedweight" binding:"omitempty,gte=0"`
	WomenStarterWeight      *float64 `json:"women_starterweight" binding:"omitempty,gte=0"`
	WomenIntermediateWeight *float64 `json:"women_intermediateweight" binding:"omitempty,gte=0"`
	WomenAdvancedWeight     *float64 `json:"women_advancedweight" binding:"omitempty,gte=0"`
}

func (r ExerciseRequest) toInput() service.ExerciseInput {
	return service.ExerciseInput{
		Name:        r.Name,
		MuscleGroup: r.MuscleGroup,
		Difficulty:  r.Difficulty,
		Baselines: domain.Baselines{
			MenStarter:        r.MenStarterWeight,
			MenIntermediate:   r.MenIntermediateWeight,
			MenAdvanced:       r.MenAdvancedWeight,
			WomenStarter:      r.WomenStarterWeight,
			WomenIntermediate: r.WomenIntermediateWeight,
			WomenAdvanced:     r.WomenAdvancedWeight,
		},
	}
}

type MediaUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Create a new exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} domain.Exercise
// @Failure 400 {object} ErrorResponse "Missing fields or negative baselines"
// @Failure 403 {object} ErrorResponse "Not a trainer"
// @Failure 409 {object} ErrorResponse "Name already taken"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), req.toInput())
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// GetExercises godoc
// @Summary List the exercise catalog
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Exercise
// @Router /exercises [get]
func (h *ExerciseHandler) GetExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	c.JSON(http.StatusOK, exercises)
}

// GetExerciseByID godoc
// @Summary Get one exercise
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Success 200 {object} domain.Exercise
// @Failure 404 {object} ErrorResponse "Exercise not found"
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExerciseByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// UpdateExercise godoc
// @Summary Replace an exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 200 {object} domain.Exercise
// @Failure 404 {object} ErrorResponse "Exercise not found"
// @Failure 409 {object} ErrorResponse "Name already taken"
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise godoc
// @Summary Delete an exercise
// @Tags Exercises
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Success 200 {object} gin.H
// @Failure 404 {object} ErrorResponse "Exercise not found"
// @Failure 409 {object} ErrorResponse "Exercise still referenced by workouts"
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), id); err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exercise deleted successfully"})
}

// RequestMediaUpload godoc
// @Summary Get a presigned URL to upload a demo video
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Param body body MediaUploadRequest true "Media content type"
// @Success 201 {object} service.MediaUpload
// @Failure 503 {object} ErrorResponse "Storage not configured"
// @Router /exercises/{id}/media [post]
func (h *ExerciseHandler) RequestMediaUpload(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req MediaUploadRequest
	if !bindJSON(c, &req) {
		return
	}
	upload, err := h.exerciseService.CreateMediaUpload(c.Request.Context(), id, req.ContentType)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// GetMediaURL godoc
// @Summary Get a presigned URL to view the demo video
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Success 200 {object} gin.H
// @Failure 404 {object} ErrorResponse "No media"
// @Router /exercises/{id}/media [get]
func (h *ExerciseHandler) GetMediaURL(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	url, err := h.exerciseService.GetMediaURL(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
