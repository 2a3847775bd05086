package dto

import (
	"time"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
)

// DateFormat is the external wire format for calendar dates
const DateFormat = "2006-01-02"

// CreateDriveRequest represents the drive scheduling payload
type CreateDriveRequest struct {
	VaccineName       string   `json:"vaccineName" binding:"required" example:"HPV Vaccine"`
	Date              string   `json:"date" binding:"required" example:"2026-09-20"` // YYYY-MM-DD
	AvailableDoses    int      `json:"availableDoses" binding:"required,gt=0" example:"100"`
	ApplicableClasses []string `json:"applicableClasses" example:"5,6,7"`
}

// UpdateDriveRequest represents a partial drive update.
// UsedDoses is intentionally absent: the dose counter is owned by the
// record ledger and cannot be set through this endpoint.
type UpdateDriveRequest struct {
	VaccineName       *string   `json:"vaccineName,omitempty"`
	Date              *string   `json:"date,omitempty"` // YYYY-MM-DD
	AvailableDoses    *int      `json:"availableDoses,omitempty"`
	ApplicableClasses *[]string `json:"applicableClasses,omitempty"`
	Status            *string   `json:"status,omitempty" example:"Cancelled"`
}

// DriveResponse represents a drive with external date formatting
type DriveResponse struct {
	ID                int64     `json:"id"`
	VaccineName       string    `json:"vaccineName"`
	Date              string    `json:"date" example:"2026-09-20"`
	AvailableDoses    int       `json:"availableDoses"`
	UsedDoses         int       `json:"usedDoses"`
	ApplicableClasses []string  `json:"applicableClasses"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// DriveListResponse represents a paginated list of drives
type DriveListResponse struct {
	Drives     []DriveResponse `json:"drives"`
	Pagination PaginationInfo  `json:"pagination"`
}

// FromDrive converts a model drive to its response representation
func FromDrive(drive *models.VaccinationDrive) DriveResponse {
	if drive == nil {
		return DriveResponse{}
	}

	classes := drive.ApplicableClasses
	if classes == nil {
		classes = []string{}
	}

	return DriveResponse{
		ID:                drive.ID,
		VaccineName:       drive.VaccineName,
		Date:              drive.Date.Format(DateFormat),
		AvailableDoses:    drive.AvailableDoses,
		UsedDoses:         drive.UsedDoses,
		ApplicableClasses: classes,
		Status:            string(drive.Status),
		CreatedAt:         drive.CreatedAt,
		UpdatedAt:         drive.UpdatedAt,
	}
}

// FromDrives converts a slice of model drives to response representations
func FromDrives(drives []*models.VaccinationDrive) []DriveResponse {
	responses := make([]DriveResponse, 0, len(drives))
	for _, drive := range drives {
		responses = append(responses, FromDrive(drive))
	}
	return responses
}
