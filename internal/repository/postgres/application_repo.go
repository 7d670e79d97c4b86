package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"go-job-intake/internal/domain"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new job application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts a submitted application and returns its id
func (r *applicationRepo) Create(ctx context.Context, p *domain.ApplicationPayload) (string, error) {
	experiences, err := json.Marshal(p.Experiences)
	if err != nil {
		return "", fmt.Errorf("encode experiences: %w", err)
	}
	education, err := json.Marshal(p.Education)
	if err != nil {
		return "", fmt.Errorf("encode education: %w", err)
	}
	languages, err := json.Marshal(p.Languages)
	if err != nil {
		return "", fmt.Errorf("encode languages: %w", err)
	}

	query := `
		INSERT INTO job_applications (
			first_name, last_name, date_of_birth, gender, nationality,
			email, phone, address, city, state, zip_code, linkedin, portfolio,
			experiences, education, technical_skills, soft_skills, languages,
			resume_filename, cover_letter_filename,
			desired_position, expected_salary, availability_date, work_type
		)
		VALUES (
			$1, $2, $3::date, $4, $5,
			$6, $7, $8, $9, $10, $11, $12, $13,
			$14::jsonb, $15::jsonb, $16, $17, $18::jsonb,
			$19, $20,
			$21, $22, $23::date, $24
		)
		RETURNING id::text`

	var id string
	err = r.db.QueryRow(ctx, query,
		p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.Nationality,
		p.Email, p.Phone, p.Address, p.City, p.State, p.ZipCode, p.LinkedIn, p.Portfolio,
		string(experiences), string(education), pq.Array(p.TechnicalSkills), pq.Array(p.SoftSkills), string(languages),
		p.ResumeFilename, p.CoverLetterFilename,
		p.DesiredPosition, p.ExpectedSalary, p.AvailabilityDate, string(p.WorkType),
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListSubmitted returns applications created at or after since, newest first
func (r *applicationRepo) ListSubmitted(ctx context.Context, since time.Time, limit int) ([]domain.SubmittedApplication, error) {
	query := `
		SELECT
			id::text, created_at,
			first_name, last_name, to_char(date_of_birth, 'YYYY-MM-DD'), gender, nationality,
			email, phone, address, city, state, zip_code, linkedin, portfolio,
			experiences::text, education::text, technical_skills, soft_skills, languages::text,
			resume_filename, cover_letter_filename,
			desired_position, expected_salary, to_char(availability_date, 'YYYY-MM-DD'), work_type
		FROM job_applications
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SubmittedApplication
	for rows.Next() {
		app, err := scanSubmitted(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *app)
	}
	return out, rows.Err()
}

func scanSubmitted(rows pgx.Rows) (*domain.SubmittedApplication, error) {
	var (
		a                                 domain.SubmittedApplication
		experiences, education, languages string
		technicalSkills, softSkills       []string
		workType                          string
	)
	err := rows.Scan(
		&a.ID, &a.CreatedAt,
		&a.FirstName, &a.LastName, &a.DateOfBirth, &a.Gender, &a.Nationality,
		&a.Email, &a.Phone, &a.Address, &a.City, &a.State, &a.ZipCode, &a.LinkedIn, &a.Portfolio,
		&experiences, &education, pq.Array(&technicalSkills), pq.Array(&softSkills), &languages,
		&a.ResumeFilename, &a.CoverLetterFilename,
		&a.DesiredPosition, &a.ExpectedSalary, &a.AvailabilityDate, &workType,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(experiences), &a.Experiences); err != nil {
		return nil, fmt.Errorf("decode experiences of %s: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(education), &a.Education); err != nil {
		return nil, fmt.Errorf("decode education of %s: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(languages), &a.Languages); err != nil {
		return nil, fmt.Errorf("decode languages of %s: %w", a.ID, err)
	}
	a.TechnicalSkills = technicalSkills
	a.SoftSkills = softSkills
	a.WorkType = domain.WorkType(workType)
	return &a, nil
}
