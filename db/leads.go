// ABOUTME: Lead database operations
// ABOUTME: Handles lead lifecycle, fuzzy company lookup, and filtered listing
package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tlemaire/pilotage/models"
)

// CreateLead inserts the lead and assigns the backend id. Any synthetic
// id the mapper put on the record is discarded here.
func CreateLead(db *sql.DB, lead *models.Lead) error {
	lead.ID = uuid.New().String()
	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	if lead.Stage == "" {
		lead.Stage = models.StageNew
	}

	_, err := db.Exec(`
		INSERT INTO leads (id, company, contact, email, phone, value, stage, score, source, probability, owner, next_step, last_contact, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, lead.ID, lead.Company, lead.Contact, lead.Email, lead.Phone, lead.Value, lead.Stage, lead.Score, lead.Source, lead.Probability, lead.Owner, lead.NextStep, lead.LastContact, lead.CreatedAt, lead.UpdatedAt)

	return err
}

func GetLead(db *sql.DB, id string) (*models.Lead, error) {
	lead := &models.Lead{}

	err := db.QueryRow(`
		SELECT id, company, contact, email, phone, value, stage, score, source, probability, owner, next_step, last_contact, created_at, updated_at
		FROM leads WHERE id = ?
	`, id).Scan(
		&lead.ID,
		&lead.Company,
		&lead.Contact,
		&lead.Email,
		&lead.Phone,
		&lead.Value,
		&lead.Stage,
		&lead.Score,
		&lead.Source,
		&lead.Probability,
		&lead.Owner,
		&lead.NextStep,
		&lead.LastContact,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return lead, nil
}

func UpdateLead(db *sql.DB, lead *models.Lead) error {
	lead.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE leads
		SET company = ?, contact = ?, email = ?, phone = ?, value = ?, stage = ?, score = ?, source = ?, probability = ?, owner = ?, next_step = ?, last_contact = ?, updated_at = ?
		WHERE id = ?
	`, lead.Company, lead.Contact, lead.Email, lead.Phone, lead.Value, lead.Stage, lead.Score, lead.Source, lead.Probability, lead.Owner, lead.NextStep, lead.LastContact, lead.UpdatedAt, lead.ID)

	return err
}

// UpdateLeadStage changes only the stage, the drag-and-drop path.
func UpdateLeadStage(db *sql.DB, id, stage string) error {
	_, err := db.Exec(`
		UPDATE leads SET stage = ?, updated_at = ? WHERE id = ?
	`, stage, time.Now(), id)
	return err
}

func DeleteLead(db *sql.DB, id string) error {
	_, err := db.Exec(`DELETE FROM leads WHERE id = ?`, id)
	return err
}

func ListLeads(db *sql.DB, stage string, limit int) ([]models.Lead, error) {
	if limit <= 0 {
		limit = 500
	}

	var rows *sql.Rows
	var err error

	if stage != "" {
		rows, err = db.Query(`
			SELECT id, company, contact, email, phone, value, stage, score, source, probability, owner, next_step, last_contact, created_at, updated_at
			FROM leads
			WHERE stage = ?
			ORDER BY created_at DESC
			LIMIT ?
		`, stage, limit)
	} else {
		rows, err = db.Query(`
			SELECT id, company, contact, email, phone, value, stage, score, source, probability, owner, next_step, last_contact, created_at, updated_at
			FROM leads
			ORDER BY created_at DESC
			LIMIT ?
		`, limit)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.ID, &l.Company, &l.Contact, &l.Email, &l.Phone, &l.Value, &l.Stage, &l.Score, &l.Source, &l.Probability, &l.Owner, &l.NextStep, &l.LastContact, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}

	return leads, rows.Err()
}

// FindLeadByCompany returns at most one lead whose company name
// contains the given fragment, case-insensitively. Ordering is the
// backend's own, so the first match is not guaranteed deterministic
// when several companies share the fragment.
func FindLeadByCompany(db *sql.DB, fragment string) (*models.Lead, error) {
	pattern := "%" + strings.ToLower(fragment) + "%"

	lead := &models.Lead{}
	err := db.QueryRow(`
		SELECT id, company, contact, email, phone, value, stage, score, source, probability, owner, next_step, last_contact, created_at, updated_at
		FROM leads
		WHERE LOWER(company) LIKE ?
		LIMIT 1
	`, pattern).Scan(
		&lead.ID,
		&lead.Company,
		&lead.Contact,
		&lead.Email,
		&lead.Phone,
		&lead.Value,
		&lead.Stage,
		&lead.Score,
		&lead.Source,
		&lead.Probability,
		&lead.Owner,
		&lead.NextStep,
		&lead.LastContact,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return lead, nil
}

// LogActivity appends one activity row for a lead mutation.
func LogActivity(db *sql.DB, leadID, action, detail string) error {
	_, err := db.Exec(`
		INSERT INTO activity_logs (id, lead_id, action, detail, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.New().String(), leadID, action, detail, time.Now())
	return err
}

func GetLeadActivity(db *sql.DB, leadID string) ([]models.ActivityEntry, error) {
	rows, err := db.Query(`
		SELECT id, lead_id, action, detail, created_at
		FROM activity_logs
		WHERE lead_id = ?
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		if err := rows.Scan(&e.ID, &e.LeadID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
