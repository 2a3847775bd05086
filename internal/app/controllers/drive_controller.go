package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/app/models/dto"
	"github.com/evrenos-dev/vaxtrack/internal/app/services"
	"github.com/evrenos-dev/vaxtrack/internal/middleware"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/apperrors"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/helpers"
)

// DriveController handles vaccination drive endpoints
type DriveController struct {
	driveService *services.DriveService
}

// NewDriveController creates a new DriveController
func NewDriveController(driveService *services.DriveService) *DriveController {
	return &DriveController{
		driveService: driveService,
	}
}

// CreateDrive handles drive scheduling
// @Summary Schedule a vaccination drive
// @Description Schedules a drive at least 15 days ahead on a date free of other active drives
// @Tags drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDriveRequest true "Drive data"
// @Success 201 {object} dto.APIResponse{data=dto.DriveResponse} "Drive scheduled"
// @Failure 400 {object} dto.ErrorResponse "Validation or lead-time failure"
// @Failure 409 {object} dto.ErrorResponse "Date already taken"
// @Router /drives [post]
func (c *DriveController) CreateDrive(ctx *gin.Context) {
	var req dto.CreateDriveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("vaccineName, date and availableDoses are required"))
		return
	}

	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("date must be in YYYY-MM-DD format"))
		return
	}

	drive, err := c.driveService.CreateDrive(ctx, req.VaccineName, date, req.AvailableDoses, req.ApplicableClasses)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromDrive(drive)))
}

// GetDrive handles retrieving a single drive
// @Summary Get a vaccination drive
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drive ID"
// @Success 200 {object} dto.APIResponse{data=dto.DriveResponse} "Drive retrieved"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Router /drives/{id} [get]
func (c *DriveController) GetDrive(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// Serve the status the drive would hold after reconciliation, so a
	// stale Scheduled state never leaks past its date
	drive, err := c.driveService.ReconcileDrive(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromDrive(drive)))
}

// UpdateDrive handles partial drive updates
// @Summary Update a vaccination drive
// @Description Updates drive fields. Past drives are immutable; a new date must satisfy the scheduling rules.
// @Tags drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drive ID"
// @Param request body dto.UpdateDriveRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.DriveResponse} "Drive updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failure or past drive"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Failure 409 {object} dto.ErrorResponse "Date already taken"
// @Router /drives/{id} [put]
func (c *DriveController) UpdateDrive(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateDriveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("invalid request payload"))
		return
	}

	update := services.DriveUpdate{
		VaccineName:       req.VaccineName,
		AvailableDoses:    req.AvailableDoses,
		ApplicableClasses: req.ApplicableClasses,
	}

	if req.Date != nil {
		date, err := helpers.ParseDate(*req.Date)
		if err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError("date must be in YYYY-MM-DD format"))
			return
		}
		update.Date = &date
	}

	if req.Status != nil {
		status := models.DriveStatus(*req.Status)
		update.Status = &status
	}

	drive, err := c.driveService.UpdateDrive(ctx, id, update)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromDrive(drive)))
}

// DeleteDrive handles drive deletion
// @Summary Delete a vaccination drive
// @Description Deletes a drive. Past drives and drives with records cannot be deleted.
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drive ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Drive deleted"
// @Failure 400 {object} dto.ErrorResponse "Drive already past"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Failure 409 {object} dto.ErrorResponse "Drive has vaccination records"
// @Router /drives/{id} [delete]
func (c *DriveController) DeleteDrive(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.driveService.DeleteDrive(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Vaccination drive deleted successfully"}))
}

// GetAllDrives handles listing drives
// @Summary List vaccination drives
// @Description Lists drives with optional status filtering and pagination
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(Scheduled, Completed, Cancelled)
// @Param page query int false "Page number (1-based)" default(1)
// @Param per_page query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.DriveListResponse} "Drives retrieved"
// @Router /drives [get]
func (c *DriveController) GetAllDrives(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	var status *models.DriveStatus
	if statusStr := ctx.Query("status"); statusStr != "" {
		parsed := models.DriveStatus(statusStr)
		status = &parsed
	}

	drives, total, err := c.driveService.ListDrives(ctx, status, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.DriveListResponse{
		Drives:     dto.FromDrives(drives),
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// ReconcileDrives handles status reconciliation on demand
// @Summary Reconcile drive statuses
// @Description Aligns every non-cancelled drive's status with its date
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Reconciliation completed"
// @Router /drives/reconcile [post]
func (c *DriveController) ReconcileDrives(ctx *gin.Context) {
	changed, err := c.driveService.ReconcileStatuses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{
		"message": "Drive statuses reconciled",
		"changed": changed,
	}))
}
