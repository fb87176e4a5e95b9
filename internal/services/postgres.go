package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// PostgresStorage handles PostgreSQL operations
type PostgresStorage struct {
	db *sql.DB
}

var postgresInstance *PostgresStorage

// InitializePostgres sets up PostgreSQL storage
func InitializePostgres(connectionString string) error {
	pgStorage := &PostgresStorage{}
	if err := pgStorage.Connect(connectionString); err != nil {
		return err
	}
	postgresInstance = pgStorage
	return nil
}

// Connect establishes connection to PostgreSQL
func (p *PostgresStorage) Connect(connectionString string) error {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %v", err)
	}

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %v", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	p.db = db

	// Create tables
	if err := p.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %v", err)
	}

	log.Info("Connected to PostgreSQL successfully")
	return nil
}

func (p *PostgresStorage) createTables() error {
	query := `
    CREATE TABLE IF NOT EXISTS attachments (
        id UUID PRIMARY KEY,
        trip_id UUID NOT NULL,
        owner_id UUID NOT NULL,
        file_name VARCHAR(255) NOT NULL,
        file_url VARCHAR(1000) NOT NULL,
        file_type VARCHAR(100) NOT NULL,
        file_size BIGINT NOT NULL DEFAULT 0,
        category VARCHAR(50) NOT NULL,
        link_url VARCHAR(1000),
        note TEXT,
        scan_status VARCHAR(50) DEFAULT 'pending',
        scanned_at TIMESTAMPTZ,
        uploaded_at TIMESTAMPTZ NOT NULL,
        created_at TIMESTAMPTZ DEFAULT NOW(),
        updated_at TIMESTAMPTZ DEFAULT NOW()
    );

    CREATE TABLE IF NOT EXISTS policy_rules (
        id UUID PRIMARY KEY,
        category VARCHAR(50) NOT NULL,
        max_amount NUMERIC(12,2) NOT NULL,
        currency VARCHAR(3) NOT NULL,
        per VARCHAR(10) NOT NULL DEFAULT 'day',
        description TEXT,
        source VARCHAR(20) NOT NULL DEFAULT 'manual',
        created_at TIMESTAMPTZ DEFAULT NOW()
    );
    `
	_, err := p.db.Exec(query)
	if err != nil {
		return err
	}

	indexQuery := `
    CREATE INDEX IF NOT EXISTS idx_attachments_trip_id ON attachments(trip_id);
    CREATE INDEX IF NOT EXISTS idx_attachments_owner_id ON attachments(owner_id);
    CREATE INDEX IF NOT EXISTS idx_attachments_uploaded_at ON attachments(uploaded_at DESC);
    CREATE INDEX IF NOT EXISTS idx_attachments_scan_status ON attachments(scan_status);
    CREATE INDEX IF NOT EXISTS idx_policy_rules_category ON policy_rules(category);
    `

	_, err = p.db.Exec(indexQuery)
	return err
}

// Public functions - directly callable from handlers

func SaveAttachment(a models.Attachment) error {
	if postgresInstance == nil {
		return fmt.Errorf("postgres storage not initialized")
	}
	return postgresInstance.saveAttachment(a)
}

func GetAttachment(id string) (models.Attachment, bool) {
	if postgresInstance == nil {
		return models.Attachment{}, false
	}
	return postgresInstance.getAttachment(id)
}

func GetTripAttachments(tripID string) ([]models.Attachment, error) {
	if postgresInstance == nil {
		return nil, fmt.Errorf("postgres storage not initialized")
	}
	return postgresInstance.getTripAttachments(tripID)
}

func DeleteAttachment(id string) bool {
	if postgresInstance == nil {
		return false
	}
	return postgresInstance.deleteAttachment(id)
}

func DeleteAllAttachmentsForOwner(ownerID string) int {
	if postgresInstance == nil {
		return 0
	}
	return postgresInstance.deleteAllAttachmentsForOwner(ownerID)
}

func UpdateAttachmentScanStatus(id, status string, scannedAt time.Time) error {
	if postgresInstance == nil {
		return fmt.Errorf("postgres storage not initialized")
	}
	return postgresInstance.updateScanStatus(id, status, scannedAt)
}

func SavePolicyRule(r models.PolicyRule) error {
	if postgresInstance == nil {
		return fmt.Errorf("postgres storage not initialized")
	}
	return postgresInstance.savePolicyRule(r)
}

func ListPolicyRules() ([]models.PolicyRule, error) {
	if postgresInstance == nil {
		return nil, fmt.Errorf("postgres storage not initialized")
	}
	return postgresInstance.listPolicyRules()
}

// Private methods with actual implementation

func (p *PostgresStorage) saveAttachment(a models.Attachment) error {
	query := `
    INSERT INTO attachments (id, trip_id, owner_id, file_name, file_url, file_type, file_size, category, link_url, note, scan_status, uploaded_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    ON CONFLICT (id) DO UPDATE SET
        file_name = EXCLUDED.file_name,
        file_url = EXCLUDED.file_url,
        file_type = EXCLUDED.file_type,
        file_size = EXCLUDED.file_size,
        category = EXCLUDED.category,
        link_url = EXCLUDED.link_url,
        note = EXCLUDED.note,
        updated_at = NOW()
    `

	scanStatus := a.ScanStatus
	if scanStatus == "" {
		scanStatus = "pending"
	}

	_, err := p.db.Exec(query,
		a.ID,
		a.TripID,
		a.OwnerID,
		a.FileName,
		a.FileURL,
		a.FileType,
		a.FileSize,
		a.Category,
		nullable(a.LinkURL),
		nullable(a.Note),
		scanStatus,
		a.UploadedAt,
	)

	return err
}

func (p *PostgresStorage) getAttachment(id string) (models.Attachment, bool) {
	query := `
    SELECT id, trip_id, owner_id, file_name, file_url, file_type, file_size, category, link_url, note, scan_status, scanned_at, uploaded_at
    FROM attachments WHERE id = $1
    `

	var a models.Attachment
	var linkURL, note sql.NullString
	var scannedAt sql.NullTime
	err := p.db.QueryRow(query, id).Scan(
		&a.ID,
		&a.TripID,
		&a.OwnerID,
		&a.FileName,
		&a.FileURL,
		&a.FileType,
		&a.FileSize,
		&a.Category,
		&linkURL,
		&note,
		&a.ScanStatus,
		&scannedAt,
		&a.UploadedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Attachment{}, false
	}
	if err != nil {
		log.Errorf("[DB] Failed to fetch attachment %s: %v", id, err)
		return models.Attachment{}, false
	}

	a.LinkURL = linkURL.String
	a.Note = note.String
	if scannedAt.Valid {
		t := scannedAt.Time
		a.ScannedAt = &t
	}
	return a, true
}

func (p *PostgresStorage) getTripAttachments(tripID string) ([]models.Attachment, error) {
	query := `
    SELECT id, trip_id, owner_id, file_name, file_url, file_type, file_size, category, link_url, note, scan_status, scanned_at, uploaded_at
    FROM attachments WHERE trip_id = $1
    ORDER BY uploaded_at DESC
    `

	rows, err := p.db.Query(query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attachments := make([]models.Attachment, 0)
	for rows.Next() {
		var a models.Attachment
		var linkURL, note sql.NullString
		var scannedAt sql.NullTime
		if err := rows.Scan(
			&a.ID,
			&a.TripID,
			&a.OwnerID,
			&a.FileName,
			&a.FileURL,
			&a.FileType,
			&a.FileSize,
			&a.Category,
			&linkURL,
			&note,
			&a.ScanStatus,
			&scannedAt,
			&a.UploadedAt,
		); err != nil {
			return nil, err
		}
		a.LinkURL = linkURL.String
		a.Note = note.String
		if scannedAt.Valid {
			t := scannedAt.Time
			a.ScannedAt = &t
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (p *PostgresStorage) deleteAttachment(id string) bool {
	result, err := p.db.Exec(`DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		log.Errorf("[DB] Failed to delete attachment %s: %v", id, err)
		return false
	}
	n, _ := result.RowsAffected()
	return n > 0
}

func (p *PostgresStorage) deleteAllAttachmentsForOwner(ownerID string) int {
	result, err := p.db.Exec(`DELETE FROM attachments WHERE owner_id = $1`, ownerID)
	if err != nil {
		log.Errorf("[DB] Failed to delete attachments for owner %s: %v", ownerID, err)
		return 0
	}
	n, _ := result.RowsAffected()
	return int(n)
}

func (p *PostgresStorage) updateScanStatus(id, status string, scannedAt time.Time) error {
	_, err := p.db.Exec(
		`UPDATE attachments SET scan_status = $2, scanned_at = $3, updated_at = NOW() WHERE id = $1`,
		id, status, scannedAt,
	)
	return err
}

func (p *PostgresStorage) savePolicyRule(r models.PolicyRule) error {
	query := `
    INSERT INTO policy_rules (id, category, max_amount, currency, per, description, source)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := p.db.Exec(query,
		r.ID,
		r.Category,
		r.MaxAmount,
		r.Currency,
		r.Per,
		nullable(r.Description),
		r.Source,
	)
	return err
}

func (p *PostgresStorage) listPolicyRules() ([]models.PolicyRule, error) {
	rows, err := p.db.Query(`
    SELECT id, category, max_amount, currency, per, description, source, created_at
    FROM policy_rules ORDER BY category, created_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]models.PolicyRule, 0)
	for rows.Next() {
		var r models.PolicyRule
		var desc sql.NullString
		if err := rows.Scan(&r.ID, &r.Category, &r.MaxAmount, &r.Currency, &r.Per, &desc, &r.Source, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Description = desc.String
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
