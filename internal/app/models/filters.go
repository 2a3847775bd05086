package models

import "time"

// StudentFilter narrows student listings
type StudentFilter struct {
	Search string // Matches name, student_id or class_name, case-insensitive
	Offset uint64
	Limit  int
}

// DriveFilter narrows drive listings
type DriveFilter struct {
	Status *DriveStatus
	Offset uint64
	Limit  int
}

// RecordFilter narrows record listings
type RecordFilter struct {
	StudentID *int64
	DriveID   *int64
}

// ReportFilter narrows the vaccination report
type ReportFilter struct {
	VaccineName *string
	ClassName   *string
	StartDate   *time.Time
	EndDate     *time.Time
}
