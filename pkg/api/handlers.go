package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mkuiper/guardplan/pkg/core/planning"
	"github.com/mkuiper/guardplan/pkg/core/services"
	"github.com/mkuiper/guardplan/pkg/db"
)

// Handler contains dependencies for the route handlers.
// Role enforcement (planner/admin) happens in the surrounding auth layer;
// these handlers assume an authorized caller.
type Handler struct {
	Store    db.PlanningStore
	Distance planning.DistanceService
	Logger   *zap.Logger
	Params   planning.Params
}

// Router builds the HTTP routes
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/gaps", h.GetGaps)
	api.POST("/shifts/validate", h.ValidateShift)

	return r
}

// gapsRequest maps the loosely-typed query string onto a validated request
// before anything reaches the engine
type gapsRequest struct {
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// GetGaps handles GET /api/gaps?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD.
// end_date defaults to start_date + 6 days when absent.
func (h *Handler) GetGaps(c *gin.Context) {
	var req gapsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date is required as YYYY-MM-DD"})
		return
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end := start.AddDate(0, 0, 6)
	if req.EndDate != "" {
		end, _ = time.Parse("2006-01-02", req.EndDate)
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must not be before start_date"})
		return
	}

	report, err := services.DetectGaps(c.Request.Context(), h.Store, h.Distance, h.Logger, h.Params, start, end)
	if err != nil {
		h.Logger.Error("Gap detection failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// validateShiftRequest maps and validates the shift-validation payload
type validateShiftRequest struct {
	ShiftID      string `json:"shift_id"`
	EmployeeID   string `json:"employee_id" binding:"required"`
	Date         string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime    string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime      string `json:"end_time" binding:"required,datetime=15:04"`
	BreakMinutes int    `json:"break_minutes" binding:"omitempty,min=0"`
}

// ValidateShift handles POST /api/shifts/validate: the hard-block check run
// before a planner commits a new or edited shift
func (h *Handler) ValidateShift(c *gin.Context) {
	var req validateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	result, err := services.ValidateShift(c.Request.Context(), h.Store, h.Logger, h.Params, services.ShiftValidationRequest{
		ShiftID:      req.ShiftID,
		EmployeeID:   req.EmployeeID,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		BreakMinutes: req.BreakMinutes,
	})
	if err != nil {
		h.Logger.Error("Shift validation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}
