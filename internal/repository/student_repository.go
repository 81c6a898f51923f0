package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakec/hms-backend/internal/model"
)

const studentColumns = `id, user_id, full_name, roll_number, email, mobile, room_number, dob, father,
	gender, student_id, faculty, department, issue_date, expiry_date, address_type,
	nationality, state, district, block_number, ward_number, status, fee_status,
	created_at, updated_at`

// StudentRepository handles hostel application data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func scanStudent(row pgx.Row, s *model.Student) error {
	return row.Scan(
		&s.ID, &s.UserID, &s.FullName, &s.RollNumber, &s.Email, &s.Mobile, &s.RoomNumber,
		&s.DOB, &s.Father, &s.Gender, &s.StudentID, &s.Faculty, &s.Department,
		&s.IssueDate, &s.ExpiryDate, &s.AddressType, &s.Nationality, &s.State, &s.District,
		&s.BlockNumber, &s.WardNumber, &s.Status, &s.FeeStatus, &s.CreatedAt, &s.UpdatedAt,
	)
}

// FindConflict returns the first taken field among rollNumber, email and roomNumber.
func (r *StudentRepository) FindConflict(ctx context.Context, rollNumber, email, roomNumber string) (string, error) {
	var roll, mail, room bool
	err := r.pool.QueryRow(ctx,
		`SELECT
		   EXISTS (SELECT 1 FROM students WHERE roll_number = $1),
		   EXISTS (SELECT 1 FROM students WHERE email = $2),
		   EXISTS (SELECT 1 FROM students WHERE room_number = $3)`,
		rollNumber, email, roomNumber,
	).Scan(&roll, &mail, &room)
	if err != nil {
		return "", translate(err)
	}
	switch {
	case roll:
		return "rollNumber", nil
	case mail:
		return "email", nil
	case room:
		return "roomNumber", nil
	}
	return "", nil
}

// Create inserts a new application.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (id, user_id, full_name, roll_number, email, mobile, room_number, dob,
		   father, gender, student_id, faculty, department, issue_date, expiry_date, address_type,
		   nationality, state, district, block_number, ward_number, status, fee_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		   $17, $18, $19, $20, $21, $22, $23)
		 RETURNING created_at, updated_at`,
		s.ID, s.UserID, s.FullName, s.RollNumber, s.Email, s.Mobile, s.RoomNumber, s.DOB,
		s.Father, s.Gender, s.StudentID, s.Faculty, s.Department, s.IssueDate, s.ExpiryDate, s.AddressType,
		s.Nationality, s.State, s.District, s.BlockNumber, s.WardNumber, s.Status, s.FeeStatus,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return translate(err)
}

// List retrieves every application ordered by roll number.
func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+studentColumns+` FROM students ORDER BY roll_number`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// GetByID retrieves an application by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	s := &model.Student{}
	row := r.pool.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	if err := scanStudent(row, s); err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// GetByUserID retrieves the application owned by a user.
func (r *StudentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Student, error) {
	s := &model.Student{}
	row := r.pool.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE user_id = $1`, userID)
	if err := scanStudent(row, s); err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// UpdateStatus sets the review status and returns the updated application.
func (r *StudentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) (*model.Student, error) {
	s := &model.Student{}
	row := r.pool.QueryRow(ctx,
		`UPDATE students SET status = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2
		 RETURNING `+studentColumns,
		status, id,
	)
	if err := scanStudent(row, s); err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// MarkFeePaid flags the hostel fee as settled.
func (r *StudentRepository) MarkFeePaid(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET fee_status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		model.FeePaid, id,
	)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
