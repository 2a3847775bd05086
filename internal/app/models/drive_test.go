package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriveStatusIsValid(t *testing.T) {
	assert.True(t, DriveStatusScheduled.IsValid())
	assert.True(t, DriveStatusCompleted.IsValid())
	assert.True(t, DriveStatusCancelled.IsValid())

	assert.False(t, DriveStatus("Running").IsValid())
	assert.False(t, DriveStatus("").IsValid())
}

func TestRemainingDoses(t *testing.T) {
	drive := &VaccinationDrive{AvailableDoses: 100, UsedDoses: 30}
	assert.Equal(t, 70, drive.RemainingDoses())

	drive.UsedDoses = 100
	assert.Equal(t, 0, drive.RemainingDoses())

	// A shrunken capacity never reports negative spare doses
	drive.UsedDoses = 120
	assert.Equal(t, 0, drive.RemainingDoses())
}

func TestAppliesToClass(t *testing.T) {
	drive := &VaccinationDrive{ApplicableClasses: []string{"5", "6"}}
	assert.True(t, drive.AppliesToClass("5"))
	assert.False(t, drive.AppliesToClass("7"))

	// Empty set means every class is eligible
	open := &VaccinationDrive{ApplicableClasses: []string{}}
	assert.True(t, open.AppliesToClass("7"))
	assert.True(t, open.AppliesToClass("Pre-K"))
}
