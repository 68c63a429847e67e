// ABOUTME: Integration credential record operations
// ABOUTME: Read/write of slug-keyed credential records with JSON config
package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/tlemaire/pilotage/models"
)

func GetIntegration(db *sql.DB, slug string) (*models.Integration, error) {
	integration := &models.Integration{}
	var config sql.NullString

	err := db.QueryRow(`
		SELECT slug, connected, config, updated_at
		FROM integrations WHERE slug = ?
	`, slug).Scan(
		&integration.Slug,
		&integration.Connected,
		&config,
		&integration.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if config.Valid && config.String != "" {
		if err := json.Unmarshal([]byte(config.String), &integration.Config); err != nil {
			return nil, err
		}
	}

	return integration, nil
}

// SaveIntegration upserts the record; provisioned through the settings
// surface, never by the completion pipeline.
func SaveIntegration(db *sql.DB, integration *models.Integration) error {
	integration.UpdatedAt = time.Now()

	config, err := json.Marshal(integration.Config)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO integrations (slug, connected, config, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			connected = excluded.connected,
			config = excluded.config,
			updated_at = excluded.updated_at
	`, integration.Slug, integration.Connected, string(config), integration.UpdatedAt)

	return err
}

func ListIntegrations(db *sql.DB) ([]models.Integration, error) {
	rows, err := db.Query(`
		SELECT slug, connected, config, updated_at
		FROM integrations
		ORDER BY slug
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var integrations []models.Integration
	for rows.Next() {
		var i models.Integration
		var config sql.NullString
		if err := rows.Scan(&i.Slug, &i.Connected, &config, &i.UpdatedAt); err != nil {
			return nil, err
		}
		if config.Valid && config.String != "" {
			if err := json.Unmarshal([]byte(config.String), &i.Config); err != nil {
				return nil, err
			}
		}
		integrations = append(integrations, i)
	}

	return integrations, rows.Err()
}
