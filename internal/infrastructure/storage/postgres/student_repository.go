package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"studentadmin/internal/domain/student"
)

const studentColumns = `id, name, student_college, status, dsa_score, webd_score, react_score,
		       interview_date, interview_company, interview_student_result`

type StudentRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewStudentRepository(pool *pgxpool.Pool, log *slog.Logger) *StudentRepository {
	return &StudentRepository{
		pool: pool,
		log:  log.With("component", "student_repository"),
	}
}

func (r *StudentRepository) List(ctx context.Context) ([]student.Student, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+studentColumns+` FROM students ORDER BY id`)
	if err != nil {
		r.log.Error("failed to list students", "error", err)
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	list := make([]student.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		list = append(list, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}

	return list, nil
}

func (r *StudentRepository) Get(ctx context.Context, id int) (student.Student, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)

	s, err := scanStudent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, fmt.Errorf("get student: %w", err)
	}

	return s, nil
}

func (r *StudentRepository) Create(ctx context.Context, d student.Draft) (student.Student, error) {
	const query = `
		INSERT INTO students (name, student_college, status, dsa_score, webd_score, react_score,
		                      interview_date, interview_company, interview_student_result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + studentColumns

	row := r.pool.QueryRow(ctx, query,
		d.Name, d.College, d.Status, d.DSAScore, d.WebDevScore, d.FrameworkScore,
		dateArg(d.InterviewDate), d.InterviewCompany, d.InterviewResult,
	)

	s, err := scanStudent(row)
	if err != nil {
		r.log.Error("failed to create student", "error", err)
		return student.Student{}, fmt.Errorf("create student: %w", err)
	}

	return s, nil
}

func (r *StudentRepository) Update(ctx context.Context, s student.Student) (student.Student, error) {
	const query = `
		UPDATE students
		SET name = $2, student_college = $3, status = $4, dsa_score = $5, webd_score = $6,
		    react_score = $7, interview_date = $8, interview_company = $9,
		    interview_student_result = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + studentColumns

	row := r.pool.QueryRow(ctx, query,
		s.ID, s.Name, s.College, s.Status, s.DSAScore, s.WebDevScore, s.FrameworkScore,
		dateArg(s.InterviewDate), s.InterviewCompany, s.InterviewResult,
	)

	updated, err := scanStudent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		r.log.Error("failed to update student", "id", s.ID, "error", err)
		return student.Student{}, fmt.Errorf("update student: %w", err)
	}

	return updated, nil
}

func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		r.log.Error("failed to delete student", "id", id, "error", err)
		return fmt.Errorf("delete student: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return student.ErrNotFound
	}

	return nil
}

func scanStudent(row pgx.Row) (student.Student, error) {
	var (
		s    student.Student
		date *time.Time
	)

	err := row.Scan(
		&s.ID, &s.Name, &s.College, &s.Status,
		&s.DSAScore, &s.WebDevScore, &s.FrameworkScore,
		&date, &s.InterviewCompany, &s.InterviewResult,
	)
	if err != nil {
		return student.Student{}, err
	}

	if date != nil {
		s.InterviewDate = student.NewDate(date.Date())
	}

	return s, nil
}

func dateArg(d student.Date) any {
	if !d.Valid {
		return nil
	}
	return d.Time
}
