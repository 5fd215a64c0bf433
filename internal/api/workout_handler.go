package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/service"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
	groupService   service.GroupWorkoutService
	errs           errorResponder
}

func NewWorkoutHandler(workoutService service.WorkoutService, groupService service.GroupWorkoutService, errs errorResponder) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, groupService: groupService, errs: errs}
}

type CreateWorkoutRequest struct {
	Name      string                        `json:"name"`
	Date      *time.Time                    `json:"date"`
	Notes     *string                       `json:"notes"`
	Exercises []domain.WorkoutExerciseInput `json:"exercises"`
}

type WorkoutDetailsRequest struct {
	Name      string                   `json:"name"`
	Date      *time.Time               `json:"date"`
	Notes     *string                  `json:"notes"`
	IsGlobal  bool                     `json:"is_global"`
	Exercises []domain.PlannedExercise `json:"exercises"`
}

type CreateAndAssignRequest struct {
	UserID         int64                 `json:"userId" binding:"required,gt=0"`
	WorkoutDetails WorkoutDetailsRequest `json:"workoutDetails"`
}

// GetWorkouts godoc
// @Summary List all workouts
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Workout
// @Router /workouts [get]
func (h *WorkoutHandler) GetWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context())
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// CreateWorkout godoc
// @Summary Log a workout for the caller
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body CreateWorkoutRequest true "Workout with sets per exercise"
// @Success 201 {object} domain.Workout
// @Failure 400 {object} ErrorResponse "Missing name or exercises"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req CreateWorkoutRequest
	if !bindJSON(c, &req) {
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), caller.UserID, service.CreateWorkoutInput{
		Name:      req.Name,
		Date:      req.Date,
		Notes:     req.Notes,
		Exercises: req.Exercises,
	})
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Workout created successfully", "workout": workout})
}

// GetWorkoutDetails godoc
// @Summary Workout with its exercises
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workout ID"
// @Success 200 {object} domain.WorkoutDetails
// @Failure 404 {object} ErrorResponse "Workout not found"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkoutDetails(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	details, err := h.workoutService.GetWorkoutDetails(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetWorkoutHistory godoc
// @Summary Workouts of the caller, newest first
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Workout
// @Router /workouts/history [get]
func (h *WorkoutHandler) GetWorkoutHistory(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	workouts, err := h.workoutService.GetHistory(c.Request.Context(), caller.UserID)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetAssignedWorkouts godoc
// @Summary Workouts assigned to the caller
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.AssignedWorkout
// @Router /workouts/assigned [get]
func (h *WorkoutHandler) GetAssignedWorkouts(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	assigned, err := h.workoutService.GetAssigned(c.Request.Context(), caller.UserID)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, assigned)
}

// GetExerciseProgress godoc
// @Summary Logged weights of one exercise, oldest first
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param exerciseId path int true "Exercise ID"
// @Success 200 {array} domain.ProgressPoint
// @Router /workouts/progress/{exerciseId} [get]
func (h *WorkoutHandler) GetExerciseProgress(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	exerciseID, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}
	points, err := h.workoutService.GetExerciseProgress(c.Request.Context(), caller.UserID, exerciseID)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// GetSuggestedWeights godoc
// @Summary Suggested weight per participant and exercise of a group workout
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param workoutId path int true "Group workout ID"
// @Success 200 {array} domain.SuggestedWeight
// @Failure 404 {object} ErrorResponse "Group workout not found"
// @Router /workouts/suggested-weights/{workoutId} [get]
func (h *WorkoutHandler) GetSuggestedWeights(c *gin.Context) {
	id, ok := parseIDParam(c, "workoutId")
	if !ok {
		return
	}
	suggestions, err := h.groupService.GetSuggestedWeights(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// GetWorkoutsPerWeek godoc
// @Summary Completed workouts per week for the caller
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.WeeklyCount
// @Router /workouts/per-week [get]
func (h *WorkoutHandler) GetWorkoutsPerWeek(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	counts, err := h.workoutService.GetWorkoutsPerWeek(c.Request.Context(), caller.UserID)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// GetPublicWorkoutHistory godoc
// @Summary Global workouts of a user
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {array} domain.PublicWorkoutEntry
// @Router /workouts/public/{user_id} [get]
func (h *WorkoutHandler) GetPublicWorkoutHistory(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	entries, err := h.workoutService.GetPublicHistory(c.Request.Context(), userID)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// CreateAndAssignWorkout godoc
// @Summary Create a workout and assign it to a client
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAndAssignRequest true "Assignee and workout"
// @Success 201 {object} domain.UserWorkout
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Not a trainer"
// @Router /workouts/create-and-assign [post]
func (h *WorkoutHandler) CreateAndAssignWorkout(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req CreateAndAssignRequest
	if !bindJSON(c, &req) {
		return
	}

	d := req.WorkoutDetails
	assignment, err := h.workoutService.CreateAndAssign(c.Request.Context(), caller.UserID, service.AssignWorkoutInput{
		UserID:    req.UserID,
		Name:      d.Name,
		Date:      d.Date,
		Notes:     d.Notes,
		IsGlobal:  d.IsGlobal,
		Exercises: d.Exercises,
	})
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Workout created and assigned successfully.", "assignment": assignment})
}
