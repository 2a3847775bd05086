package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID        int64     `json:"id" db:"id" example:"1"`                      // Internal identifier
	StudentID string    `json:"studentId" db:"student_id" example:"ST001"`   // Externally assigned student number, immutable
	Name      string    `json:"name" db:"name" example:"John Doe"`           // Student's full name
	ClassName string    `json:"className" db:"class_name" example:"5"`       // Class identifier (Pre-K, KG, 1..12)
	Section   string    `json:"section" db:"section" example:"A"`            // Section letter within the class
	Age       *int      `json:"age,omitempty" db:"age" example:"10"`         // Optional age
	Gender    *string   `json:"gender,omitempty" db:"gender" example:"Male"` // Optional gender
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
