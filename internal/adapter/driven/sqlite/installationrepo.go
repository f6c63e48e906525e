package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/camdenr/trackhub/internal/domain/model"
	"github.com/camdenr/trackhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.InstallationStore = (*InstallationRepo)(nil)

// InstallationRepo is the SQLite implementation of the InstallationStore port
// interface. Access tokens are encrypted with AES-256-GCM before write and
// decrypted after read. Because the encryption is not deterministic, token
// lookup cannot be a direct query; callers scan ListActiveWithToken instead.
type InstallationRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key; nil when encryption is disabled.
}

// NewInstallationRepo creates a new InstallationRepo. key must be 32 bytes for
// AES-256-GCM, or nil to disable installation storage (write operations will
// return driven.ErrEncryptionKeyNotSet).
func NewInstallationRepo(db *DB, key []byte) *InstallationRepo {
	return &InstallationRepo{db: db, key: key}
}

// Create stores a new installation with its access token encrypted.
func (r *InstallationRepo) Create(ctx context.Context, inst model.AppInstallation) (int64, error) {
	var token any
	if inst.AccessToken != "" {
		encrypted, err := r.encrypt(inst.AccessToken)
		if err != nil {
			return 0, err
		}
		token = encrypted
	}

	scopes := inst.Scopes
	if scopes == nil {
		scopes = []string{}
	}
	scopesJSON, err := json.Marshal(scopes)
	if err != nil {
		return 0, fmt.Errorf("marshal scopes: %w", err)
	}

	const query = `
		INSERT INTO app_installations (
			app_id, workspace_id, user_id, access_token, token_expires_at,
			scopes, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Writer.ExecContext(ctx, query,
		inst.AppID, inst.WorkspaceID, inst.UserID, token, nullableTime(inst.TokenExpiresAt),
		string(scopesJSON), string(inst.Status), inst.CreatedAt.UTC(), inst.UpdatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("create installation for app %d in workspace %d: %w", inst.AppID, inst.WorkspaceID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id for installation: %w", err)
	}

	return id, nil
}

// GetByID retrieves an installation by id with its token decrypted.
// Returns (nil, nil) if the installation does not exist.
func (r *InstallationRepo) GetByID(ctx context.Context, id int64) (*model.AppInstallation, error) {
	const query = `
		SELECT id, app_id, workspace_id, user_id, access_token, token_expires_at,
		       scopes, status, created_at, updated_at
		FROM app_installations
		WHERE id = ?
	`

	inst, encrypted, err := scanInstallation(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get installation %d: %w", id, err)
	}

	if encrypted != "" {
		plaintext, err := r.decrypt(encrypted)
		if err != nil {
			return nil, fmt.Errorf("decrypt token for installation %d: %w", id, err)
		}
		inst.AccessToken = plaintext
	}

	return inst, nil
}

// ListActiveWithToken returns every ACTIVE installation that has a stored
// access token, tokens decrypted. Rows whose token fails to decrypt are
// logged and skipped rather than failing the whole listing.
func (r *InstallationRepo) ListActiveWithToken(ctx context.Context) ([]model.AppInstallation, error) {
	if r.key == nil {
		return nil, driven.ErrEncryptionKeyNotSet
	}

	const query = `
		SELECT id, app_id, workspace_id, user_id, access_token, token_expires_at,
		       scopes, status, created_at, updated_at
		FROM app_installations
		WHERE status = 'active' AND access_token IS NOT NULL
	`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active installations: %w", err)
	}
	defer rows.Close()

	var insts []model.AppInstallation
	for rows.Next() {
		inst, encrypted, err := scanInstallation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan installation: %w", err)
		}

		plaintext, err := r.decrypt(encrypted)
		if err != nil {
			slog.Warn("skipping installation with undecryptable token", "installation", inst.ID, "error", err)
			continue
		}
		inst.AccessToken = plaintext

		insts = append(insts, *inst)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate installations: %w", err)
	}

	return insts, nil
}

// UpdateStatus changes the installation's status.
func (r *InstallationRepo) UpdateStatus(ctx context.Context, id int64, status model.InstallationStatus) error {
	const query = `UPDATE app_installations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query, string(status), id); err != nil {
		return fmt.Errorf("update status for installation %d: %w", id, err)
	}

	return nil
}

func scanInstallation(s scanner) (*model.AppInstallation, string, error) {
	var inst model.AppInstallation
	var token sql.NullString
	var expiresAt sql.NullString
	var scopesJSON, status string
	var createdAt, updatedAt string

	err := s.Scan(
		&inst.ID, &inst.AppID, &inst.WorkspaceID, &inst.UserID, &token, &expiresAt,
		&scopesJSON, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, "", err
	}

	inst.Status = model.InstallationStatus(status)

	if err := json.Unmarshal([]byte(scopesJSON), &inst.Scopes); err != nil {
		return nil, "", fmt.Errorf("unmarshal scopes: %w", err)
	}

	inst.TokenExpiresAt, err = parseNullTime(expiresAt)
	if err != nil {
		return nil, "", fmt.Errorf("parse token_expires_at: %w", err)
	}

	inst.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, "", fmt.Errorf("parse created_at: %w", err)
	}

	inst.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, "", fmt.Errorf("parse updated_at: %w", err)
	}

	return &inst, token.String, nil
}

// encrypt encrypts plaintext using AES-256-GCM and returns a base64-encoded
// string containing the nonce (12 bytes) prepended to the ciphertext.
func (r *InstallationRepo) encrypt(plaintext string) (string, error) {
	if r.key == nil {
		return "", driven.ErrEncryptionKeyNotSet
	}

	block, err := aes.NewCipher(r.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts a base64-encoded AES-256-GCM ciphertext.
func (r *InstallationRepo) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	block, err := aes.NewCipher(r.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}
