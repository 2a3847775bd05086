package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/apperrors"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/helpers"
)

type RecordServiceTestSuite struct {
	suite.Suite
	stores   *memStores
	service  *RecordService
	drives   *memDriveStore
	students *memStudentStore
	ctx      context.Context
}

func TestRecordServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecordServiceTestSuite))
}

func (s *RecordServiceTestSuite) SetupTest() {
	s.stores = newMemStores()
	s.students = &memStudentStore{s: s.stores}
	s.drives = &memDriveStore{s: s.stores}
	s.service = NewRecordService(&memRecordStore{s: s.stores}, s.students, s.drives)
	s.ctx = context.Background()
}

func (s *RecordServiceTestSuite) seedStudent(externalID, className string) *models.Student {
	student := &models.Student{
		StudentID: externalID,
		Name:      "Student " + externalID,
		ClassName: className,
		Section:   "A",
	}
	s.Require().NoError(s.students.Create(s.ctx, student))
	return student
}

func (s *RecordServiceTestSuite) seedDrive(available int, classes []string) *models.VaccinationDrive {
	if classes == nil {
		classes = []string{}
	}
	drive := &models.VaccinationDrive{
		VaccineName:       "HPV Vaccine",
		Date:              helpers.Today().AddDate(0, 0, 20),
		AvailableDoses:    available,
		ApplicableClasses: classes,
		Status:            models.DriveStatusScheduled,
	}
	s.Require().NoError(s.drives.Create(s.ctx, drive))
	return drive
}

func (s *RecordServiceTestSuite) TestCreateRecord() {
	student := s.seedStudent("ST001", "5")
	drive := s.seedDrive(10, []string{"5", "6"})

	record, err := s.service.CreateRecord(s.ctx, student.ID, drive.ID, nil, nil)
	s.Require().NoError(err)
	s.NotZero(record.ID)
	s.Equal(models.RecordStatusCompleted, record.Status)
	s.True(helpers.SameDay(record.Date, helpers.Today()))
	s.Equal(student.Name, record.StudentName)
	s.Equal(drive.VaccineName, record.VaccineName)

	stored, err := s.drives.GetByID(s.ctx, drive.ID)
	s.Require().NoError(err)
	s.Equal(1, stored.UsedDoses)
}

func (s *RecordServiceTestSuite) TestCreateRecordWithExplicitDateAndStatus() {
	student := s.seedStudent("ST001", "5")
	drive := s.seedDrive(10, nil)

	date := drive.Date
	pending := models.RecordStatusPending
	record, err := s.service.CreateRecord(s.ctx, student.ID, drive.ID, &date, &pending)
	s.Require().NoError(err)
	s.Equal(models.RecordStatusPending, record.Status)
	s.True(helpers.SameDay(record.Date, drive.Date))
}

func (s *RecordServiceTestSuite) TestCreateRecordMissingReferences() {
	student := s.seedStudent("ST001", "5")
	drive := s.seedDrive(10, nil)

	_, err := s.service.CreateRecord(s.ctx, 999, drive.ID, nil, nil)
	s.ErrorIs(err, apperrors.ErrStudentNotFound)

	_, err = s.service.CreateRecord(s.ctx, student.ID, 999, nil, nil)
	s.ErrorIs(err, apperrors.ErrDriveNotFound)
}

func (s *RecordServiceTestSuite) TestCreateRecordClassNotApplicable() {
	student := s.seedStudent("ST001", "3")
	drive := s.seedDrive(10, []string{"5", "6"})

	_, err := s.service.CreateRecord(s.ctx, student.ID, drive.ID, nil, nil)
	s.ErrorIs(err, apperrors.ErrClassNotApplicable)

	stored, err := s.drives.GetByID(s.ctx, drive.ID)
	s.Require().NoError(err)
	s.Equal(0, stored.UsedDoses)
}

func (s *RecordServiceTestSuite) TestCreateRecordEmptyClassSetAppliesToAll() {
	student := s.seedStudent("ST001", "3")
	drive := s.seedDrive(10, nil)

	_, err := s.service.CreateRecord(s.ctx, student.ID, drive.ID, nil, nil)
	s.NoError(err)
}

func (s *RecordServiceTestSuite) TestCreateRecordNoDosesLeft() {
	first := s.seedStudent("ST001", "5")
	second := s.seedStudent("ST002", "5")
	drive := s.seedDrive(1, nil)

	_, err := s.service.CreateRecord(s.ctx, first.ID, drive.ID, nil, nil)
	s.Require().NoError(err)

	_, err = s.service.CreateRecord(s.ctx, second.ID, drive.ID, nil, nil)
	s.ErrorIs(err, apperrors.ErrNoDosesAvailable)
}

func (s *RecordServiceTestSuite) TestCreateRecordDuplicatePair() {
	student := s.seedStudent("ST001", "5")
	drive := s.seedDrive(10, nil)

	_, err := s.service.CreateRecord(s.ctx, student.ID, drive.ID, nil, nil)
	s.Require().NoError(err)

	_, err = s.service.CreateRecord(s.ctx, student.ID, drive.ID, nil, nil)
	s.ErrorIs(err, apperrors.ErrStudentAlreadyVaccinated)

	// The duplicate attempt must not consume a dose
	stored, err := s.drives.GetByID(s.ctx, drive.ID)
	s.Require().NoError(err)
	s.Equal(1, stored.UsedDoses)
}

func (s *RecordServiceTestSuite) TestDeleteRecordReleasesDose() {
	student := s.seedStudent("ST001", "5")
	drive := s.seedDrive(10, nil)

	record, err := s.service.CreateRecord(s.ctx, student.ID, drive.ID, nil, nil)
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteRecord(s.ctx, record.ID))

	stored, err := s.drives.GetByID(s.ctx, drive.ID)
	s.Require().NoError(err)
	s.Equal(0, stored.UsedDoses)

	// The pair is free again after deletion
	_, err = s.service.CreateRecord(s.ctx, student.ID, drive.ID, nil, nil)
	s.NoError(err)
}

func (s *RecordServiceTestSuite) TestDeleteRecordNotFound() {
	err := s.service.DeleteRecord(s.ctx, 999)
	s.ErrorIs(err, apperrors.ErrRecordNotFound)
}

func (s *RecordServiceTestSuite) TestListRecordsFilters() {
	first := s.seedStudent("ST001", "5")
	second := s.seedStudent("ST002", "5")
	drive := s.seedDrive(10, nil)
	other := s.seedDriveOnDate(10, helpers.Today().AddDate(0, 0, 25))

	_, err := s.service.CreateRecord(s.ctx, first.ID, drive.ID, nil, nil)
	s.Require().NoError(err)
	_, err = s.service.CreateRecord(s.ctx, second.ID, drive.ID, nil, nil)
	s.Require().NoError(err)
	_, err = s.service.CreateRecord(s.ctx, first.ID, other.ID, nil, nil)
	s.Require().NoError(err)

	records, err := s.service.ListRecords(s.ctx, nil, nil)
	s.Require().NoError(err)
	s.Len(records, 3)

	records, err = s.service.ListRecords(s.ctx, &first.ID, nil)
	s.Require().NoError(err)
	s.Len(records, 2)

	records, err = s.service.ListRecords(s.ctx, nil, &drive.ID)
	s.Require().NoError(err)
	s.Len(records, 2)

	records, err = s.service.ListRecords(s.ctx, &second.ID, &other.ID)
	s.Require().NoError(err)
	s.Len(records, 0)
}

func (s *RecordServiceTestSuite) seedDriveOnDate(available int, date time.Time) *models.VaccinationDrive {
	drive := &models.VaccinationDrive{
		VaccineName:       "Polio Vaccine",
		Date:              date,
		AvailableDoses:    available,
		ApplicableClasses: []string{},
		Status:            models.DriveStatusScheduled,
	}
	s.Require().NoError(s.drives.Create(s.ctx, drive))
	return drive
}

// TestConcurrentCreatesNeverOversubscribe races more creations at a drive
// than it has doses. Exactly the remaining capacity may succeed; every
// other attempt must fail with the capacity error and the counter must
// never exceed the available doses.
func (s *RecordServiceTestSuite) TestConcurrentCreatesNeverOversubscribe() {
	const doses = 5
	const attempts = 20

	drive := s.seedDrive(doses, nil)

	students := make([]*models.Student, attempts)
	for i := range students {
		students[i] = s.seedStudent(fmt.Sprintf("ST%03d", i+1), "5")
	}

	var successes atomic.Int64
	var capacityFailures atomic.Int64

	g, ctx := errgroup.WithContext(s.ctx)
	for _, student := range students {
		student := student
		g.Go(func() error {
			_, err := s.service.CreateRecord(ctx, student.ID, drive.ID, nil, nil)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, apperrors.ErrNoDosesAvailable):
				capacityFailures.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	s.Equal(int64(doses), successes.Load())
	s.Equal(int64(attempts-doses), capacityFailures.Load())

	stored, err := s.drives.GetByID(s.ctx, drive.ID)
	s.Require().NoError(err)
	s.Equal(doses, stored.UsedDoses)

	records, err := s.service.ListRecords(s.ctx, nil, &drive.ID)
	s.Require().NoError(err)
	s.Len(records, doses)
}
