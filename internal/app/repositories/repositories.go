package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository    *UserRepository
	TokenRepository   *TokenRepository
	StudentRepository *StudentRepository
	DriveRepository   *DriveRepository
	RecordRepository  *RecordRepository
	ReportRepository  *ReportRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db),
		TokenRepository:   NewTokenRepository(db),
		StudentRepository: NewStudentRepository(db),
		DriveRepository:   NewDriveRepository(db),
		RecordRepository:  NewRecordRepository(db),
		ReportRepository:  NewReportRepository(db),
	}
}
