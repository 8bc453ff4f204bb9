package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ihiteshgupta/learnflow/internal/certificate"
)

// SQLiteStore persists certifications through database/sql. Timestamps are
// stored as RFC 3339 strings and skills as a JSON array.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite wraps an opened database handle.
func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Save(ctx context.Context, cert *certificate.Certification) error {
	skills, err := json.Marshal(cert.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	if cert.Skills == nil {
		skills = []byte("[]")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO certificates (credential_id, user_id, tier, recipient_name, course_name, issued_at, skills, exam_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(credential_id) DO UPDATE SET
			tier = excluded.tier,
			recipient_name = excluded.recipient_name,
			course_name = excluded.course_name,
			issued_at = excluded.issued_at,
			skills = excluded.skills,
			exam_score = excluded.exam_score`,
		cert.CredentialID, cert.UserID, string(cert.Tier), cert.RecipientName,
		cert.CourseName, cert.IssuedAt.UTC().Format(time.RFC3339Nano), string(skills), cert.ExamScore,
	)
	if err != nil {
		return fmt.Errorf("save certificate: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindByCredentialID(ctx context.Context, credentialID string) (*certificate.Certification, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT credential_id, user_id, tier, recipient_name, course_name, issued_at, skills, exam_score
		FROM certificates WHERE credential_id = ?`, credentialID)

	cert, err := scanCertification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find certificate: %w", err)
	}
	return cert, nil
}

func (s *SQLiteStore) ListByUser(ctx context.Context, userID string) ([]*certificate.Certification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT credential_id, user_id, tier, recipient_name, course_name, issued_at, skills, exam_score
		FROM certificates WHERE user_id = ? ORDER BY issued_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	var out []*certificate.Certification
	for rows.Next() {
		cert, err := scanCertification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		out = append(out, cert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate certificates: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCertification(row rowScanner) (*certificate.Certification, error) {
	var (
		cert      certificate.Certification
		tier      string
		issuedAt  string
		skillsRaw string
		examScore sql.NullFloat64
	)
	if err := row.Scan(&cert.CredentialID, &cert.UserID, &tier, &cert.RecipientName,
		&cert.CourseName, &issuedAt, &skillsRaw, &examScore); err != nil {
		return nil, err
	}

	cert.Tier = certificate.Tier(tier)

	t, err := time.Parse(time.RFC3339Nano, issuedAt)
	if err != nil {
		return nil, fmt.Errorf("parse issued_at: %w", err)
	}
	cert.IssuedAt = t

	if err := json.Unmarshal([]byte(skillsRaw), &cert.Skills); err != nil {
		return nil, fmt.Errorf("parse skills: %w", err)
	}
	if examScore.Valid {
		cert.ExamScore = &examScore.Float64
	}
	return &cert, nil
}
