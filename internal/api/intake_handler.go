package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/service"
)

type IntakeHandler struct {
	intakeService service.IntakeService
	errs          errorResponder
}

func NewIntakeHandler(intakeService service.IntakeService, errs errorResponder) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService, errs: errs}
}

type IntakeRequest struct {
	ClientName       string   `json:"client_name"`
	Sex              int      `json:"sex"`
	Age              int      `json:"age"`
	FatPercentage    *float64 `json:"fat_percentage"`
	HeightCM         *float64 `json:"height_cm"`
	WeightCategory   *int     `json:"weight_category"`
	BMI              *float64 `json:"bmi"`
	FFMI             *float64 `json:"ffmi"`
	AthleticismScore *int     `json:"athleticism_score"`
	MovementShoulder *int     `json:"movement_shoulder"`
	MovementHips     *int     `json:"movement_hips"`
	MovementAnkles   *int     `json:"movement_ankles"`
	MovementThoracic *int     `json:"movement_thoracic"`
	Genetics         *int     `json:"genetics"`
}

func (r IntakeRequest) toDomain() domain.Intake {
	return domain.Intake{
		ClientName:       r.ClientName,
		Sex:              r.Sex,
		Age:              r.Age,
		FatPercentage:    r.FatPercentage,
		HeightCM:         r.HeightCM,
		WeightCategory:   r.WeightCategory,
		BMI:              r.BMI,
		FFMI:             r.FFMI,
		AthleticismScore: r.AthleticismScore,
		MovementShoulder: r.MovementShoulder,
		MovementHips:     r.MovementHips,
		MovementAnkles:   r.MovementAnkles,
		MovementThoracic: r.MovementThoracic,
		Genetics:         r.Genetics,
	}
}

// GetIntakeData godoc
// @Summary Intake assessment of a user
// @Tags Intake
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} domain.Intake
// @Failure 403 {object} ErrorResponse "Not your data"
// @Failure 404 {object} ErrorResponse "No intake yet"
// @Router /intake/{user_id} [get]
func (h *IntakeHandler) GetIntakeData(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	intake, err := h.intakeService.GetIntake(c.Request.Context(), caller, userID)
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, intake)
}

// AddIntakeData godoc
// @Summary Submit the intake assessment of a user
// @Description Only one intake per user is accepted.
// @Tags Intake
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param intake body IntakeRequest true "Assessment"
// @Success 201 {object} gin.H "{message, data}"
// @Failure 400 {object} ErrorResponse "Missing client_name, sex or age"
// @Failure 409 {object} ErrorResponse "Already submitted"
// @Router /intake/{user_id} [post]
func (h *IntakeHandler) AddIntakeData(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	var req IntakeRequest
	if !bindJSON(c, &req) {
		return
	}
	intake, err := h.intakeService.SubmitIntake(c.Request.Context(), caller, userID, req.toDomain())
	if err != nil {
		h.errs.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Intake data added successfully", "data": intake})
}
