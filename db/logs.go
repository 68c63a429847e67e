// ABOUTME: Notification, AI log, and SOP database operations
// ABOUTME: Append-mostly tables feeding the dashboard and settings views
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/tlemaire/pilotage/models"
)

func CreateNotification(db *sql.DB, n *models.Notification) error {
	n.ID = uuid.New().String()
	n.CreatedAt = time.Now()

	if n.Type == "" {
		n.Type = models.NotificationInfo
	}

	_, err := db.Exec(`
		INSERT INTO notifications (id, type, title, message, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, n.ID, n.Type, n.Title, n.Message, n.Read, n.CreatedAt)

	return err
}

func ListNotifications(db *sql.DB, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT id, type, title, message, read, created_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func MarkNotificationRead(db *sql.DB, id string) error {
	_, err := db.Exec(`UPDATE notifications SET read = 1 WHERE id = ?`, id)
	return err
}

func AppendAILog(db *sql.DB, entry *models.AILog) error {
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now()

	_, err := db.Exec(`
		INSERT INTO ai_logs (id, query, response, user_email, category, status, latency_ms, model, key_source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Query, entry.Response, entry.UserEmail, entry.Category, entry.Status, entry.LatencyMS, entry.Model, entry.KeySource, entry.CreatedAt)

	return err
}

func ListAILogs(db *sql.DB, limit int) ([]models.AILog, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT id, query, response, user_email, category, status, latency_ms, model, key_source, created_at
		FROM ai_logs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AILog
	for rows.Next() {
		var e models.AILog
		if err := rows.Scan(&e.ID, &e.Query, &e.Response, &e.UserEmail, &e.Category, &e.Status, &e.LatencyMS, &e.Model, &e.KeySource, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func CreateSOP(db *sql.DB, sop *models.SOP) error {
	sop.ID = uuid.New().String()
	now := time.Now()
	sop.CreatedAt = now
	sop.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO sops (id, title, category, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sop.ID, sop.Title, sop.Category, sop.Content, sop.CreatedAt, sop.UpdatedAt)

	return err
}

func GetSOP(db *sql.DB, id string) (*models.SOP, error) {
	sop := &models.SOP{}
	err := db.QueryRow(`
		SELECT id, title, category, content, created_at, updated_at
		FROM sops WHERE id = ?
	`, id).Scan(&sop.ID, &sop.Title, &sop.Category, &sop.Content, &sop.CreatedAt, &sop.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return sop, nil
}

func UpdateSOP(db *sql.DB, sop *models.SOP) error {
	sop.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE sops SET title = ?, category = ?, content = ?, updated_at = ? WHERE id = ?
	`, sop.Title, sop.Category, sop.Content, sop.UpdatedAt, sop.ID)

	return err
}

func DeleteSOP(db *sql.DB, id string) error {
	_, err := db.Exec(`DELETE FROM sops WHERE id = ?`, id)
	return err
}

func ListSOPs(db *sql.DB, category string) ([]models.SOP, error) {
	var rows *sql.Rows
	var err error

	if category != "" {
		rows, err = db.Query(`
			SELECT id, title, category, content, created_at, updated_at
			FROM sops WHERE category = ? ORDER BY title
		`, category)
	} else {
		rows, err = db.Query(`
			SELECT id, title, category, content, created_at, updated_at
			FROM sops ORDER BY title
		`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sops []models.SOP
	for rows.Next() {
		var s models.SOP
		if err := rows.Scan(&s.ID, &s.Title, &s.Category, &s.Content, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sops = append(sops, s)
	}

	return sops, rows.Err()
}
