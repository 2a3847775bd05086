package dto

import (
	"time"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
)

// CreateRecordRequest represents the vaccination record creation payload
type CreateRecordRequest struct {
	StudentID int64   `json:"studentId" binding:"required" example:"3"`
	DriveID   int64   `json:"driveId" binding:"required" example:"2"`
	Date      *string `json:"date,omitempty" example:"2026-09-20"` // YYYY-MM-DD, defaults to today
	Status    *string `json:"status,omitempty" example:"Completed"`
}

// RecordResponse represents a vaccination record with joined display fields
type RecordResponse struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"studentId"`
	DriveID     int64     `json:"driveId"`
	StudentName string    `json:"studentName"`
	VaccineName string    `json:"vaccineName"`
	Date        string    `json:"date" example:"2026-09-20"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromRecord converts a model record to its response representation
func FromRecord(record *models.VaccinationRecord) RecordResponse {
	if record == nil {
		return RecordResponse{}
	}

	return RecordResponse{
		ID:          record.ID,
		StudentID:   record.StudentID,
		DriveID:     record.DriveID,
		StudentName: record.StudentName,
		VaccineName: record.VaccineName,
		Date:        record.Date.Format(DateFormat),
		Status:      string(record.Status),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

// FromRecords converts a slice of model records to response representations
func FromRecords(records []*models.VaccinationRecord) []RecordResponse {
	responses := make([]RecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, FromRecord(record))
	}
	return responses
}
