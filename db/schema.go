// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	company TEXT NOT NULL,
	contact TEXT NOT NULL,
	email TEXT,
	phone TEXT,
	value INTEGER NOT NULL DEFAULT 0,
	stage TEXT NOT NULL,
	score INTEGER NOT NULL DEFAULT 50,
	source TEXT,
	probability INTEGER NOT NULL DEFAULT 50,
	owner TEXT,
	next_step TEXT,
	last_contact DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_stage ON leads(stage);
CREATE INDEX IF NOT EXISTS idx_leads_company ON leads(company);

CREATE TABLE IF NOT EXISTS clients (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	project TEXT,
	status TEXT,
	progress INTEGER NOT NULL DEFAULT 0,
	plan TEXT,
	email TEXT,
	phone TEXT,
	slug TEXT NOT NULL UNIQUE,
	cahier_done INTEGER NOT NULL DEFAULT 0,
	generated_ai_prompt TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_clients_slug ON clients(slug);

CREATE TABLE IF NOT EXISTS cahier_des_charges (
	client_slug TEXT PRIMARY KEY,
	company TEXT,
	activity TEXT,
	style TEXT,
	budget TEXT,
	deadline TEXT,
	features TEXT,
	file_urls TEXT,
	completed_at DATETIME,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (client_slug) REFERENCES clients(slug)
);

CREATE TABLE IF NOT EXISTS integrations (
	slug TEXT PRIMARY KEY,
	connected INTEGER NOT NULL DEFAULT 0,
	config TEXT,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL CHECK(type IN ('info', 'success', 'warning', 'error')),
	title TEXT NOT NULL,
	message TEXT,
	read INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at DESC);

CREATE TABLE IF NOT EXISTS ai_logs (
	id TEXT PRIMARY KEY,
	query TEXT NOT NULL,
	response TEXT,
	user_email TEXT,
	category TEXT NOT NULL,
	status TEXT NOT NULL,
	latency_ms INTEGER NOT NULL DEFAULT 0,
	model TEXT,
	key_source TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ai_logs_created ON ai_logs(created_at DESC);

CREATE TABLE IF NOT EXISTS sops (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	category TEXT,
	content TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_logs (
	id TEXT PRIMARY KEY,
	lead_id TEXT NOT NULL,
	action TEXT NOT NULL,
	detail TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_logs_lead ON activity_logs(lead_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
