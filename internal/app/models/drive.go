package models

import "time"

// DriveStatus defines the lifecycle state of a vaccination drive
type DriveStatus string

const (
	DriveStatusScheduled DriveStatus = "Scheduled"
	DriveStatusCompleted DriveStatus = "Completed"
	DriveStatusCancelled DriveStatus = "Cancelled"
)

// IsValid reports whether the status is one of the known lifecycle states
func (s DriveStatus) IsValid() bool {
	switch s {
	case DriveStatusScheduled, DriveStatusCompleted, DriveStatusCancelled:
		return true
	}
	return false
}

// MinimumLeadDays is the minimum number of days between scheduling a drive
// and the drive's date.
const MinimumLeadDays = 15

// VaccinationDrive defines the drive model based on the 'vaccination_drives' table.
// UsedDoses is derived state: it is mutated only through the record ledger's
// transactional create/delete operations, never through UpdateDrive.
type VaccinationDrive struct {
	ID                int64       `json:"id" db:"id" example:"1"`
	VaccineName       string      `json:"vaccineName" db:"vaccine_name" example:"HPV Vaccine"`
	Date              time.Time   `json:"date" db:"date"`                                 // Single calendar day the drive takes place
	AvailableDoses    int         `json:"availableDoses" db:"available_doses" example:"100"` // Dose capacity
	UsedDoses         int         `json:"usedDoses" db:"used_doses" example:"0"`             // Doses consumed by records; 0 <= used <= available
	ApplicableClasses []string    `json:"applicableClasses" db:"applicable_classes"`         // Empty slice means all classes eligible
	Status            DriveStatus `json:"status" db:"status" example:"Scheduled"`
	CreatedAt         time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time   `json:"updatedAt" db:"updated_at"`
}

// RemainingDoses returns the spare capacity of the drive
func (d *VaccinationDrive) RemainingDoses() int {
	remaining := d.AvailableDoses - d.UsedDoses
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AppliesToClass reports whether students of the given class are eligible.
// An empty applicable set means the drive is open to all classes.
func (d *VaccinationDrive) AppliesToClass(className string) bool {
	if len(d.ApplicableClasses) == 0 {
		return true
	}
	for _, class := range d.ApplicableClasses {
		if class == className {
			return true
		}
	}
	return false
}
