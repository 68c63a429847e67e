// ABOUTME: Client and cahier des charges database operations
// ABOUTME: Handles client CRUD and the slug-keyed intake questionnaire
package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tlemaire/pilotage/models"
)

func CreateClient(db *sql.DB, client *models.Client) error {
	client.ID = uuid.New().String()
	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now

	if client.Slug == "" {
		// Slug doubles as the public onboarding link; keep it opaque.
		client.Slug = uuid.New().String()[:8]
	}

	_, err := db.Exec(`
		INSERT INTO clients (id, name, project, status, progress, plan, email, phone, slug, cahier_done, generated_ai_prompt, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, client.ID, client.Name, client.Project, client.Status, client.Progress, client.Plan, client.Email, client.Phone, client.Slug, client.CahierDone, client.GeneratedAI, client.CreatedAt, client.UpdatedAt)

	return err
}

func GetClient(db *sql.DB, id string) (*models.Client, error) {
	return scanClient(db.QueryRow(`
		SELECT id, name, project, status, progress, plan, email, phone, slug, cahier_done, generated_ai_prompt, created_at, updated_at
		FROM clients WHERE id = ?
	`, id))
}

// GetClientBySlug resolves the public onboarding link. A slug resolves
// to exactly one client.
func GetClientBySlug(db *sql.DB, slug string) (*models.Client, error) {
	return scanClient(db.QueryRow(`
		SELECT id, name, project, status, progress, plan, email, phone, slug, cahier_done, generated_ai_prompt, created_at, updated_at
		FROM clients WHERE slug = ?
	`, slug))
}

func scanClient(row *sql.Row) (*models.Client, error) {
	client := &models.Client{}
	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Project,
		&client.Status,
		&client.Progress,
		&client.Plan,
		&client.Email,
		&client.Phone,
		&client.Slug,
		&client.CahierDone,
		&client.GeneratedAI,
		&client.CreatedAt,
		&client.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return client, nil
}

func UpdateClient(db *sql.DB, client *models.Client) error {
	client.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE clients
		SET name = ?, project = ?, status = ?, progress = ?, plan = ?, email = ?, phone = ?, cahier_done = ?, generated_ai_prompt = ?, updated_at = ?
		WHERE id = ?
	`, client.Name, client.Project, client.Status, client.Progress, client.Plan, client.Email, client.Phone, client.CahierDone, client.GeneratedAI, client.UpdatedAt, client.ID)

	return err
}

func DeleteClient(db *sql.DB, id string) error {
	_, err := db.Exec(`DELETE FROM clients WHERE id = ?`, id)
	return err
}

func ListClients(db *sql.DB, limit int) ([]models.Client, error) {
	if limit <= 0 {
		limit = 200
	}

	rows, err := db.Query(`
		SELECT id, name, project, status, progress, plan, email, phone, slug, cahier_done, generated_ai_prompt, created_at, updated_at
		FROM clients
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Project, &c.Status, &c.Progress, &c.Plan, &c.Email, &c.Phone, &c.Slug, &c.CahierDone, &c.GeneratedAI, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}

	return clients, rows.Err()
}

func GetCahier(db *sql.DB, clientSlug string) (*models.Cahier, error) {
	cahier := &models.Cahier{}
	var features, fileURLs sql.NullString

	err := db.QueryRow(`
		SELECT client_slug, company, activity, style, budget, deadline, features, file_urls, completed_at, updated_at
		FROM cahier_des_charges WHERE client_slug = ?
	`, clientSlug).Scan(
		&cahier.ClientSlug,
		&cahier.Company,
		&cahier.Activity,
		&cahier.Style,
		&cahier.Budget,
		&cahier.Deadline,
		&features,
		&fileURLs,
		&cahier.CompletedAt,
		&cahier.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if features.Valid && features.String != "" {
		if err := json.Unmarshal([]byte(features.String), &cahier.Features); err != nil {
			return nil, err
		}
	}
	if fileURLs.Valid && fileURLs.String != "" {
		if err := json.Unmarshal([]byte(fileURLs.String), &cahier.FileURLs); err != nil {
			return nil, err
		}
	}

	return cahier, nil
}

// SaveCahier upserts the questionnaire and, when it carries a
// completion timestamp, flips the owning client's cahier_done flag in
// the same transaction.
func SaveCahier(db *sql.DB, cahier *models.Cahier) error {
	cahier.UpdatedAt = time.Now()

	features, err := json.Marshal(cahier.Features)
	if err != nil {
		return err
	}
	fileURLs, err := json.Marshal(cahier.FileURLs)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO cahier_des_charges (client_slug, company, activity, style, budget, deadline, features, file_urls, completed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_slug) DO UPDATE SET
			company = excluded.company,
			activity = excluded.activity,
			style = excluded.style,
			budget = excluded.budget,
			deadline = excluded.deadline,
			features = excluded.features,
			file_urls = excluded.file_urls,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at
	`, cahier.ClientSlug, cahier.Company, cahier.Activity, cahier.Style, cahier.Budget, cahier.Deadline, string(features), string(fileURLs), cahier.CompletedAt, cahier.UpdatedAt)
	if err != nil {
		return err
	}

	if cahier.CompletedAt != nil {
		_, err = tx.Exec(`
			UPDATE clients SET cahier_done = 1, updated_at = ? WHERE slug = ?
		`, cahier.UpdatedAt, cahier.ClientSlug)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
