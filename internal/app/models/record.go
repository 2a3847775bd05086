package models

import "time"

// RecordStatus defines the state of a vaccination record
type RecordStatus string

const (
	RecordStatusCompleted RecordStatus = "Completed"
	RecordStatusPending   RecordStatus = "Pending"
)

// VaccinationRecord defines the record model based on the 'vaccination_records' table.
// A record links exactly one student to one drive; the (student, drive) pair is unique.
type VaccinationRecord struct {
	ID        int64        `json:"id" db:"id" example:"1"`
	StudentID int64        `json:"studentId" db:"student_id" example:"3"` // References students.id
	DriveID   int64        `json:"driveId" db:"drive_id" example:"2"`     // References vaccination_drives.id
	Date      time.Time    `json:"date" db:"date"`                        // Vaccination day, defaults to creation day
	Status    RecordStatus `json:"status" db:"status" example:"Completed"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" db:"updated_at"`

	// Denormalized display fields, populated by explicit joins in the repository
	StudentName string `json:"studentName,omitempty" db:"-"`
	VaccineName string `json:"vaccineName,omitempty" db:"-"`
}
