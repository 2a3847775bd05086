package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/app/models/dto"
	"github.com/evrenos-dev/vaxtrack/internal/app/services"
	"github.com/evrenos-dev/vaxtrack/internal/middleware"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/apperrors"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/helpers"
)

// RecordController handles vaccination record endpoints
type RecordController struct {
	recordService *services.RecordService
}

// NewRecordController creates a new RecordController
func NewRecordController(recordService *services.RecordService) *RecordController {
	return &RecordController{
		recordService: recordService,
	}
}

// CreateRecord handles marking a student as vaccinated
// @Summary Record a vaccination
// @Description Creates a vaccination record, consuming one dose of the drive's capacity
// @Tags vaccinations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRecordRequest true "Record data"
// @Success 201 {object} dto.APIResponse{data=dto.RecordResponse} "Vaccination recorded"
// @Failure 400 {object} dto.ErrorResponse "No doses left or class not eligible"
// @Failure 404 {object} dto.ErrorResponse "Student or drive not found"
// @Failure 409 {object} dto.ErrorResponse "Student already vaccinated in this drive"
// @Router /vaccinations [post]
func (c *RecordController) CreateRecord(ctx *gin.Context) {
	var req dto.CreateRecordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("studentId and driveId are required"))
		return
	}

	var date *time.Time
	if req.Date != nil {
		parsed, err := helpers.ParseDate(*req.Date)
		if err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError("date must be in YYYY-MM-DD format"))
			return
		}
		date = &parsed
	}

	var status *models.RecordStatus
	if req.Status != nil {
		parsed := models.RecordStatus(*req.Status)
		status = &parsed
	}

	record, err := c.recordService.CreateRecord(ctx, req.StudentID, req.DriveID, date, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromRecord(record)))
}

// GetRecord handles retrieving a single vaccination record
// @Summary Get a vaccination record
// @Tags vaccinations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} dto.APIResponse{data=dto.RecordResponse} "Record retrieved"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /vaccinations/{id} [get]
func (c *RecordController) GetRecord(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	record, err := c.recordService.GetRecord(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromRecord(record)))
}

// DeleteRecord handles record deletion
// @Summary Delete a vaccination record
// @Description Deletes a record and releases its dose back to the drive
// @Tags vaccinations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Record deleted"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /vaccinations/{id} [delete]
func (c *RecordController) DeleteRecord(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.recordService.DeleteRecord(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Vaccination record deleted successfully"}))
}

// GetAllRecords handles listing vaccination records
// @Summary List vaccination records
// @Description Lists records, optionally filtered by student or drive
// @Tags vaccinations
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student ID"
// @Param driveId query int false "Filter by drive ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.RecordResponse} "Records retrieved"
// @Router /vaccinations [get]
func (c *RecordController) GetAllRecords(ctx *gin.Context) {
	var studentID, driveID *int64

	if value := ctx.Query("studentId"); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError("invalid studentId parameter"))
			return
		}
		studentID = &parsed
	}

	if value := ctx.Query("driveId"); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError("invalid driveId parameter"))
			return
		}
		driveID = &parsed
	}

	records, err := c.recordService.ListRecords(ctx, studentID, driveID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromRecords(records)))
}
