package dto

import "github.com/evrenos-dev/vaxtrack/internal/app/models"

// CreateStudentRequest represents the student registration payload
type CreateStudentRequest struct {
	StudentID string  `json:"studentId" binding:"required" example:"ST001"`
	Name      string  `json:"name" binding:"required" example:"John Doe"`
	ClassName string  `json:"className" binding:"required" example:"5"`
	Section   string  `json:"section" binding:"required" example:"A"`
	Age       *int    `json:"age,omitempty" example:"10"`
	Gender    *string `json:"gender,omitempty" example:"Male"`
}

// UpdateStudentRequest represents a partial student update.
// The external student identifier is immutable and cannot be changed here.
type UpdateStudentRequest struct {
	Name      *string `json:"name,omitempty"`
	ClassName *string `json:"className,omitempty"`
	Section   *string `json:"section,omitempty"`
	Age       *int    `json:"age,omitempty"`
	Gender    *string `json:"gender,omitempty"`
}

// StudentListResponse represents a paginated list of students
type StudentListResponse struct {
	Students   []*models.Student `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}

// BulkImportResponse represents the outcome of a CSV bulk import
type BulkImportResponse struct {
	Message      string   `json:"message" example:"Bulk import completed"`
	SuccessCount int      `json:"successCount" example:"42"`
	ErrorCount   int      `json:"errorCount" example:"3"`
	Errors       []string `json:"errors"`
}
