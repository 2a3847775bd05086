package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Student identifier pattern - alphanumeric, 2-20 characters
	StudentIDPattern = `^[A-Za-z0-9]{2,20}$`

	// Section pattern - a single letter
	SectionPattern = `^[A-Za-z]$`

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100

	// School age range
	AgeMin = 4
	AgeMax = 20
)

// ValidClasses are the class identifiers recognized by the school
var ValidClasses = []string{
	"Pre-K", "KG", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12",
}

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	StudentID *regexp.Regexp
	Section   *regexp.Regexp
}{
	StudentID: regexp.MustCompile(StudentIDPattern),
	Section:   regexp.MustCompile(SectionPattern),
}

// IsValidStudentID reports whether the external student identifier is well-formed
func IsValidStudentID(studentID string) bool {
	return CompiledPatterns.StudentID.MatchString(studentID)
}

// IsValidSection reports whether the section is a single letter
func IsValidSection(section string) bool {
	return CompiledPatterns.Section.MatchString(section)
}

// IsValidClassName reports whether the class is one of the recognized identifiers
func IsValidClassName(className string) bool {
	for _, class := range ValidClasses {
		if class == className {
			return true
		}
	}
	return false
}

// IsValidAge reports whether the age falls in the school age range
func IsValidAge(age int) bool {
	return age >= AgeMin && age <= AgeMax
}

// IsValidName reports whether the name length is acceptable
func IsValidName(name string) bool {
	return len(name) >= NameMinLength && len(name) <= NameMaxLength
}
