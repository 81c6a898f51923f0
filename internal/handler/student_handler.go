package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sakec/hms-backend/internal/middleware"
	"github.com/sakec/hms-backend/internal/model"
	"github.com/sakec/hms-backend/internal/response"
	"github.com/sakec/hms-backend/internal/service"
	"github.com/sakec/hms-backend/internal/validator"
)

// StudentHandler handles hostel application endpoints.
type StudentHandler struct {
	registration *service.RegistrationService
	students     *service.StudentService
	log          zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(registration *service.RegistrationService, students *service.StudentService, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		registration: registration,
		students:     students,
		log:          log.With().Str("component", "student_handler").Logger(),
	}
}

// Register godoc
// POST /api/students/register
// Submits a hostel application and creates the applicant's login, whose
// username is the roll number.
func (h *StudentHandler) Register(c *gin.Context) {
	var req model.StudentApplicationRequest
	if fe := validator.BindFirst(c, &req); fe != nil {
		response.FailOnField(c, http.StatusBadRequest, response.ErrValidation, fe.Field, fe.Message)
		return
	}

	student, err := h.registration.RegisterStudent(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated,
		"Registration successful! Please log in with your roll number and password.",
		gin.H{"_id": student.ID, "rollNumber": student.RollNumber, "status": student.Status},
	)
}

// List godoc
// GET /api/students
// Returns every application for admin review.
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, students)
}

// Me godoc
// GET /api/students/me
// Returns the caller's own application.
func (h *StudentHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	userID, err := claims.IdentityID()
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	student, err := h.students.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// UpdateStatus godoc
// PUT /api/students/:id/status
// Moves an application to Pending, Approved or Rejected.
func (h *StudentHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateStatusRequest
	if fe := validator.BindFirst(c, &req); fe != nil {
		response.FailOnField(c, http.StatusBadRequest, response.ErrInvalidStatus, fe.Field, response.GetMessage(response.ErrInvalidStatus))
		return
	}

	student, err := h.students.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Application status updated to "+string(student.Status), student)
}
