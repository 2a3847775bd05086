package dto

// DashboardStatsResponse represents the aggregate counters shown on the dashboard
type DashboardStatsResponse struct {
	TotalStudents         int64   `json:"totalStudents"`
	VaccinatedStudents    int64   `json:"vaccinatedStudents"`    // Distinct students with at least one record
	VaccinationPercentage float64 `json:"vaccinationPercentage"` // Rounded to two decimals
	TotalDrives           int64   `json:"totalDrives"`
	CompletedDrives       int64   `json:"completedDrives"`
}

// UpcomingDrivesResponse represents drives scheduled within the next 30 days
type UpcomingDrivesResponse struct {
	Drives []DriveResponse `json:"drives"`
}
