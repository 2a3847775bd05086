package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/app/repositories"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/apperrors"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/helpers"
)

// memStores is an in-memory backing store shared by the fake store
// implementations below. A single mutex serializes every operation the
// way the database transactions do, so the dose accounting invariants
// hold under concurrent access.
type memStores struct {
	mu sync.Mutex

	students map[int64]*models.Student
	drives   map[int64]*models.VaccinationDrive
	records  map[int64]*models.VaccinationRecord
	users    map[int64]*models.User
	tokens   map[string]*repositories.RefreshToken

	nextStudentID int64
	nextDriveID   int64
	nextRecordID  int64
	nextTokenID   int64
}

func newMemStores() *memStores {
	return &memStores{
		students: make(map[int64]*models.Student),
		drives:   make(map[int64]*models.VaccinationDrive),
		records:  make(map[int64]*models.VaccinationRecord),
		users:    make(map[int64]*models.User),
		tokens:   make(map[string]*repositories.RefreshToken),
	}
}

func (m *memStores) countRecordsByStudent(studentID int64) int64 {
	var count int64
	for _, record := range m.records {
		if record.StudentID == studentID {
			count++
		}
	}
	return count
}

func (m *memStores) countRecordsByDrive(driveID int64) int64 {
	var count int64
	for _, record := range m.records {
		if record.DriveID == driveID {
			count++
		}
	}
	return count
}

// memStudentStore implements StudentStore on memStores

type memStudentStore struct {
	s *memStores
}

func (f *memStudentStore) Create(_ context.Context, student *models.Student) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, existing := range f.s.students {
		if existing.StudentID == student.StudentID {
			return apperrors.ErrStudentIDAlreadyExists
		}
	}

	f.s.nextStudentID++
	student.ID = f.s.nextStudentID
	student.CreatedAt = time.Now()
	student.UpdatedAt = student.CreatedAt

	clone := *student
	f.s.students[student.ID] = &clone
	return nil
}

func (f *memStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	student, ok := f.s.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	clone := *student
	return &clone, nil
}

func (f *memStudentStore) GetByStudentID(_ context.Context, studentID string) (*models.Student, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, student := range f.s.students {
		if student.StudentID == studentID {
			clone := *student
			return &clone, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *memStudentStore) Update(_ context.Context, student *models.Student) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	student.UpdatedAt = time.Now()
	clone := *student
	f.s.students[student.ID] = &clone
	return nil
}

func (f *memStudentStore) Delete(_ context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	if f.s.countRecordsByStudent(id) > 0 {
		return apperrors.ErrStudentHasRecords
	}
	delete(f.s.students, id)
	return nil
}

func (f *memStudentStore) List(_ context.Context, filter models.StudentFilter) ([]*models.Student, int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var matched []*models.Student
	for _, student := range f.s.students {
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(student.Name), needle) &&
				!strings.Contains(strings.ToLower(student.StudentID), needle) &&
				!strings.Contains(strings.ToLower(student.ClassName), needle) {
				continue
			}
		}
		clone := *student
		matched = append(matched, &clone)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := int(filter.Offset)
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}

	return matched[start:end], total, nil
}

func (f *memStudentStore) CountRecords(_ context.Context, studentID int64) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.countRecordsByStudent(studentID), nil
}

// memDriveStore implements DriveStore on memStores

type memDriveStore struct {
	s *memStores
}

func (f *memDriveStore) Create(_ context.Context, drive *models.VaccinationDrive) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, existing := range f.s.drives {
		if existing.Status != models.DriveStatusCancelled && helpers.SameDay(existing.Date, drive.Date) {
			return apperrors.ErrDriveDateTaken
		}
	}

	f.s.nextDriveID++
	drive.ID = f.s.nextDriveID
	drive.CreatedAt = time.Now()
	drive.UpdatedAt = drive.CreatedAt

	clone := *drive
	f.s.drives[drive.ID] = &clone
	return nil
}

func (f *memDriveStore) GetByID(_ context.Context, id int64) (*models.VaccinationDrive, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	drive, ok := f.s.drives[id]
	if !ok {
		return nil, apperrors.ErrDriveNotFound
	}
	clone := *drive
	return &clone, nil
}

func (f *memDriveStore) ExistsOnDate(_ context.Context, date time.Time, excludeID int64) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, drive := range f.s.drives {
		if drive.ID == excludeID || drive.Status == models.DriveStatusCancelled {
			continue
		}
		if helpers.SameDay(drive.Date, date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *memDriveStore) Update(_ context.Context, drive *models.VaccinationDrive) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	stored, ok := f.s.drives[drive.ID]
	if !ok {
		return apperrors.ErrDriveNotFound
	}

	for _, existing := range f.s.drives {
		if existing.ID == drive.ID || existing.Status == models.DriveStatusCancelled {
			continue
		}
		if helpers.SameDay(existing.Date, drive.Date) && drive.Status != models.DriveStatusCancelled {
			return apperrors.ErrDriveDateTaken
		}
	}

	drive.UsedDoses = stored.UsedDoses
	drive.UpdatedAt = time.Now()
	clone := *drive
	f.s.drives[drive.ID] = &clone
	return nil
}

func (f *memDriveStore) UpdateStatus(_ context.Context, id int64, status models.DriveStatus) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	drive, ok := f.s.drives[id]
	if !ok {
		return apperrors.ErrDriveNotFound
	}
	drive.Status = status
	drive.UpdatedAt = time.Now()
	return nil
}

func (f *memDriveStore) Delete(_ context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.drives[id]; !ok {
		return apperrors.ErrDriveNotFound
	}
	if f.s.countRecordsByDrive(id) > 0 {
		return apperrors.ErrDriveHasRecords
	}
	delete(f.s.drives, id)
	return nil
}

func (f *memDriveStore) List(_ context.Context, filter models.DriveFilter) ([]*models.VaccinationDrive, int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var matched []*models.VaccinationDrive
	for _, drive := range f.s.drives {
		if filter.Status != nil && drive.Status != *filter.Status {
			continue
		}
		clone := *drive
		matched = append(matched, &clone)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })

	total := int64(len(matched))
	start := int(filter.Offset)
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}

	return matched[start:end], total, nil
}

func (f *memDriveStore) ListNonCancelled(_ context.Context) ([]*models.VaccinationDrive, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var drives []*models.VaccinationDrive
	for _, drive := range f.s.drives {
		if drive.Status == models.DriveStatusCancelled {
			continue
		}
		clone := *drive
		drives = append(drives, &clone)
	}
	sort.Slice(drives, func(i, j int) bool { return drives[i].ID < drives[j].ID })
	return drives, nil
}

func (f *memDriveStore) ListScheduledBetween(_ context.Context, from, to time.Time) ([]*models.VaccinationDrive, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var drives []*models.VaccinationDrive
	for _, drive := range f.s.drives {
		if drive.Status != models.DriveStatusScheduled {
			continue
		}
		if drive.Date.Before(from) || drive.Date.After(to) {
			continue
		}
		clone := *drive
		drives = append(drives, &clone)
	}
	sort.Slice(drives, func(i, j int) bool { return drives[i].Date.Before(drives[j].Date) })
	return drives, nil
}

func (f *memDriveStore) CountRecords(_ context.Context, driveID int64) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.countRecordsByDrive(driveID), nil
}

// memRecordStore implements RecordStore on memStores. Create repeats the
// capacity, eligibility and uniqueness checks under the shared mutex, the
// same way the SQL implementation repeats them under a row lock.

type memRecordStore struct {
	s *memStores
}

func (f *memRecordStore) Create(_ context.Context, record *models.VaccinationRecord) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	drive, ok := f.s.drives[record.DriveID]
	if !ok {
		return apperrors.ErrDriveNotFound
	}
	student, ok := f.s.students[record.StudentID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}

	if drive.UsedDoses >= drive.AvailableDoses {
		return apperrors.ErrNoDosesAvailable
	}
	if !drive.AppliesToClass(student.ClassName) {
		return apperrors.ErrClassNotApplicable
	}
	for _, existing := range f.s.records {
		if existing.StudentID == record.StudentID && existing.DriveID == record.DriveID {
			return apperrors.ErrStudentAlreadyVaccinated
		}
	}

	f.s.nextRecordID++
	record.ID = f.s.nextRecordID
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	clone := *record
	f.s.records[record.ID] = &clone
	drive.UsedDoses++
	return nil
}

func (f *memRecordStore) GetByID(_ context.Context, id int64) (*models.VaccinationRecord, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	record, ok := f.s.records[id]
	if !ok {
		return nil, apperrors.ErrRecordNotFound
	}
	clone := *record
	f.decorateLocked(&clone)
	return &clone, nil
}

func (f *memRecordStore) Delete(_ context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	record, ok := f.s.records[id]
	if !ok {
		return apperrors.ErrRecordNotFound
	}

	if drive, ok := f.s.drives[record.DriveID]; ok && drive.UsedDoses > 0 {
		drive.UsedDoses--
	}
	delete(f.s.records, id)
	return nil
}

func (f *memRecordStore) List(_ context.Context, filter models.RecordFilter) ([]*models.VaccinationRecord, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var matched []*models.VaccinationRecord
	for _, record := range f.s.records {
		if filter.StudentID != nil && record.StudentID != *filter.StudentID {
			continue
		}
		if filter.DriveID != nil && record.DriveID != *filter.DriveID {
			continue
		}
		clone := *record
		f.decorateLocked(&clone)
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

func (f *memRecordStore) decorateLocked(record *models.VaccinationRecord) {
	if student, ok := f.s.students[record.StudentID]; ok {
		record.StudentName = student.Name
	}
	if drive, ok := f.s.drives[record.DriveID]; ok {
		record.VaccineName = drive.VaccineName
	}
}

// memUserStore implements UserStore on memStores

type memUserStore struct {
	s *memStores
}

func (f *memUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, user := range f.s.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f *memUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	user, ok := f.s.users[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *memUserStore) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	user, ok := f.s.users[id]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	user.LastLoginAt = &at
	return nil
}

// memTokenStore implements TokenStore on memStores

type memTokenStore struct {
	s *memStores
}

func (f *memTokenStore) Save(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	f.s.nextTokenID++
	f.s.tokens[token] = &repositories.RefreshToken{
		ID:        f.s.nextTokenID,
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *memTokenStore) Get(_ context.Context, token string) (*repositories.RefreshToken, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	stored, ok := f.s.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	clone := *stored
	return &clone, nil
}

func (f *memTokenStore) Delete(_ context.Context, token string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.tokens, token)
	return nil
}
