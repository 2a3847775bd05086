package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/app/models/dto"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/apperrors"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/csvutil"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/validation"
)

// RequiredImportColumns are the CSV columns a bulk student import must carry
var RequiredImportColumns = []string{"student_id", "name", "class_name", "section"}

// StudentStore is the persistence contract required by StudentService
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, int64, error)
	CountRecords(ctx context.Context, studentID int64) (int64, error)
}

// StudentService handles student registry operations
type StudentService struct {
	students StudentStore
}

// NewStudentService creates a new student service instance
func NewStudentService(students StudentStore) *StudentService {
	return &StudentService{
		students: students,
	}
}

// validateStudent validates student data before persistence
func (s *StudentService) validateStudent(student *models.Student) error {
	if student == nil {
		return apperrors.NewValidationError("student is nil")
	}

	if !validation.IsValidStudentID(student.StudentID) {
		return apperrors.NewValidationError("student ID must be alphanumeric, 2-20 characters")
	}

	if !validation.IsValidName(strings.TrimSpace(student.Name)) {
		return apperrors.NewValidationError("name must be between 2 and 100 characters")
	}

	if strings.TrimSpace(student.ClassName) == "" {
		return apperrors.NewValidationError("class name cannot be empty")
	}

	if !validation.IsValidSection(student.Section) {
		return apperrors.NewValidationError("section must be a single letter")
	}

	if student.Age != nil && !validation.IsValidAge(*student.Age) {
		return apperrors.NewValidationError("age must be between 4 and 20")
	}

	return nil
}

// RegisterStudent registers a new student
func (s *StudentService) RegisterStudent(ctx context.Context, student *models.Student) error {
	if err := s.validateStudent(student); err != nil {
		return err
	}

	return s.students.Create(ctx, student)
}

// GetStudent retrieves a student by internal ID
func (s *StudentService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.students.GetByID(ctx, id)
}

// UpdateStudent mutates only the provided fields of a student
func (s *StudentService) UpdateStudent(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.ClassName != nil {
		student.ClassName = *req.ClassName
	}
	if req.Section != nil {
		student.Section = *req.Section
	}
	if req.Age != nil {
		student.Age = req.Age
	}
	if req.Gender != nil {
		student.Gender = req.Gender
	}

	if err := s.validateStudent(student); err != nil {
		return nil, err
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// DeleteStudent removes a student. Deletion is blocked while vaccination
// records reference the student, so no record is ever orphaned.
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) error {
	if _, err := s.students.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.students.CountRecords(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrStudentHasRecords
	}

	return s.students.Delete(ctx, id)
}

// ListStudents retrieves students matching the search term with pagination
func (s *StudentService) ListStudents(ctx context.Context, search string, offset uint64, limit int) ([]*models.Student, int64, error) {
	return s.students.List(ctx, models.StudentFilter{
		Search: search,
		Offset: offset,
		Limit:  limit,
	})
}

// BulkImport registers students from CSV content. Rows that fail validation
// or collide with existing student IDs are reported and skipped; the rest
// are imported.
func (s *StudentService) BulkImport(ctx context.Context, csvData io.Reader) (*dto.BulkImportResponse, error) {
	rows, err := csvutil.Read(csvData, RequiredImportColumns)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	result := &dto.BulkImportResponse{
		Message: "Bulk import completed",
		Errors:  []string{},
	}

	for i, row := range rows {
		rowNum := i + 1

		student := &models.Student{
			StudentID: row["student_id"],
			Name:      row["name"],
			ClassName: row["class_name"],
			Section:   row["section"],
		}

		if ageStr := row["age"]; ageStr != "" {
			age, err := strconv.Atoi(ageStr)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: invalid age %q", rowNum, ageStr))
				result.ErrorCount++
				continue
			}
			student.Age = &age
		}

		if gender := row["gender"]; gender != "" {
			student.Gender = &gender
		}

		if err := s.validateStudent(student); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", rowNum, err.Error()))
			result.ErrorCount++
			continue
		}

		if err := s.students.Create(ctx, student); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", rowNum, err.Error()))
			result.ErrorCount++
			continue
		}

		result.SuccessCount++
	}

	return result, nil
}
