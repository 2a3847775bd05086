package dto

// VaccinationReportRow represents one row of the vaccination report,
// joined across records, students and drives.
type VaccinationReportRow struct {
	RecordID        int64  `json:"recordId"`
	StudentID       string `json:"studentId"`
	StudentName     string `json:"studentName"`
	ClassName       string `json:"className"`
	Section         string `json:"section"`
	VaccineName     string `json:"vaccineName"`
	VaccinationDate string `json:"vaccinationDate" example:"2026-09-20"`
	Status          string `json:"status"`
}

// VaccinationReportResponse represents the JSON form of the report
type VaccinationReportResponse struct {
	Count   int                    `json:"count"`
	Records []VaccinationReportRow `json:"records"`
}
