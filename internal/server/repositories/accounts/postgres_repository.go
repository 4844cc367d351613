package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/openatlas/openatlas/internal/common"
	"github.com/openatlas/openatlas/internal/dbx"
	"github.com/openatlas/openatlas/internal/server/models"
	"github.com/openatlas/openatlas/internal/server/status"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, email, display_name, pass_crypt, pass_salt, creation_time, status,
	description, languages, data_public, email_valid, new_email, auth_provider, auth_uid, avatar_key,
	home_lat, home_lon, home_zoom, home_tile,
	changesets_count, traces_count, diary_entries_count, diary_comments_count, note_comments_count`

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (email, display_name, pass_crypt, pass_salt, status, description, languages)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, creation_time
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Email, account.DisplayName, account.PassCrypt, account.PassSalt,
		string(status.Initial), account.Description, account.Languages).
		Scan(&account.ID, &account.CreationTime)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.Status = status.Initial
	account.Roles = map[string]struct{}{}
	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := r.scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if err := r.loadRoles(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *PostgresRepository) FindExact(ctx context.Context, identifier string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1 OR display_name = $2`

	account, err := r.scanAccount(r.db.QueryRowContext(ctx, query, strings.TrimSpace(identifier), identifier))
	if err != nil {
		return nil, err
	}

	if err := r.loadRoles(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *PostgresRepository) FindNormalized(ctx context.Context, identifier string) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		 WHERE LOWER(email) = LOWER($1) OR LOWER(NORMALIZE(display_name, NFKC)) = LOWER(NORMALIZE($2, NFKC))`

	rows, err := r.db.QueryContext(ctx, query, strings.TrimSpace(identifier), identifier)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		account, err := r.scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for _, account := range out {
		if err := r.loadRoles(ctx, account); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) error {
	query :=
		`UPDATE accounts
		 SET email = $2, display_name = $3, description = $4, languages = $5, data_public = $6,
		     email_valid = $7, new_email = $8, auth_provider = $9, auth_uid = $10, avatar_key = $11,
		     home_lat = $12, home_lon = $13, home_zoom = $14, home_tile = $15
		 WHERE id = $1
		 `

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.Email, account.DisplayName, account.Description, account.Languages,
		account.DataPublic, account.EmailValid, account.NewEmail, account.AuthProvider,
		account.AuthUID, account.AvatarKey, account.HomeLat, account.HomeLon, account.HomeZoom,
		account.HomeTile)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, s status.Status) error {
	_, err := r.db.ExecContext(ctx, `UPDATE accounts SET status = $2 WHERE id = $1`, id, string(s))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateCredentials(ctx context.Context, id int64, hash, salt string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET pass_crypt = $2, pass_salt = $3 WHERE id = $1`, id, hash, salt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ScrubPersonalData(ctx context.Context, id int64, placeholderName string) error {
	query :=
		`UPDATE accounts
		 SET display_name = $2, description = '', home_lat = NULL, home_lon = NULL, home_tile = NULL,
		     email_valid = FALSE, new_email = NULL, auth_provider = NULL, auth_uid = NULL, avatar_key = NULL
		 WHERE id = $1
		 `

	_, err := r.db.ExecContext(ctx, query, id, placeholderName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scanAccount(row scanner) (*models.Account, error) {
	account := &models.Account{}
	var st string

	err := row.Scan(
		&account.ID, &account.Email, &account.DisplayName, &account.PassCrypt, &account.PassSalt,
		&account.CreationTime, &st,
		&account.Description, &account.Languages, &account.DataPublic, &account.EmailValid,
		&account.NewEmail, &account.AuthProvider, &account.AuthUID, &account.AvatarKey,
		&account.HomeLat, &account.HomeLon, &account.HomeZoom, &account.HomeTile,
		&account.ChangesetsCount, &account.TracesCount, &account.DiaryEntriesCount,
		&account.DiaryCommentsCount, &account.NoteCommentsCount)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.Status = status.Status(st)
	return account, nil
}

func (r *PostgresRepository) loadRoles(ctx context.Context, account *models.Account) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role FROM account_roles WHERE account_id = $1`, account.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	account.Roles = map[string]struct{}{}
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		account.Roles[role] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
