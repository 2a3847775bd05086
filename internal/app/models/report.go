package models

import "time"

// ReportEntry is one row of the vaccination report, joined across
// records, students and drives by explicit foreign keys.
type ReportEntry struct {
	RecordID    int64
	StudentID   string // External student identifier
	StudentName string
	ClassName   string
	Section     string
	VaccineName string
	Date        time.Time
	Status      RecordStatus
}

// DashboardStats holds the aggregate counters shown on the dashboard
type DashboardStats struct {
	TotalStudents      int64
	VaccinatedStudents int64
	TotalDrives        int64
	CompletedDrives    int64
}
