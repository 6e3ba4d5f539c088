package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var _ Store = (*PGStore)(nil)

const identityColumns = `id, username, password_hash, role,
	perm_dashboard, perm_approval, perm_edit, perm_delete,
	perm_document_upload, perm_image_upload,
	parent_tenant, is_active, created_at, updated_at`

// PGStore implements Store using PostgreSQL. The permission columns are
// plain booleans; this adapter is the single place where the persisted
// shape becomes a PermissionSet.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) FindByUsername(ctx context.Context, username string) (Identity, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+identityColumns+` from identities where username = $1`,
		NormalizeUsername(username))
	return scanIdentity(row)
}

func (s *PGStore) FindByID(ctx context.Context, id string) (Identity, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+identityColumns+` from identities where id = $1`, id)
	return scanIdentity(row)
}

func (s *PGStore) Create(ctx context.Context, identity Identity) error {
	parent := sql.NullString{String: identity.ParentTenant, Valid: identity.ParentTenant != ""}
	_, err := s.db.ExecContext(ctx,
		`insert into identities(id, username, password_hash, role,
			perm_dashboard, perm_approval, perm_edit, perm_delete,
			perm_document_upload, perm_image_upload,
			parent_tenant, is_active, created_at, updated_at)
		values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		identity.ID, identity.Username, identity.PasswordHash, string(identity.Role),
		identity.Permissions.DashboardAccess, identity.Permissions.HomestayApproval,
		identity.Permissions.HomestayEdit, identity.Permissions.HomestayDelete,
		identity.Permissions.DocumentUpload, identity.Permissions.ImageUpload,
		parent, identity.IsActive, identity.CreatedAt, identity.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (s *PGStore) UpdatePermissions(ctx context.Context, id string, perms PermissionSet) error {
	res, err := s.db.ExecContext(ctx,
		`update identities set
			perm_dashboard=$1, perm_approval=$2, perm_edit=$3, perm_delete=$4,
			perm_document_upload=$5, perm_image_upload=$6, updated_at=now()
		where id = $7`,
		perms.DashboardAccess, perms.HomestayApproval, perms.HomestayEdit,
		perms.HomestayDelete, perms.DocumentUpload, perms.ImageUpload, id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGStore) SetActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`update identities set is_active=$1, updated_at=now() where id = $2`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGStore) ListByParent(ctx context.Context, parentTenant string) ([]Identity, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+identityColumns+` from identities
		where parent_tenant = $1 order by created_at asc`, parentTenant)
	if err != nil {
		return nil, err
	}
	return collectIdentities(rows)
}

func (s *PGStore) ListByRole(ctx context.Context, role Role) ([]Identity, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+identityColumns+` from identities
		where role = $1 order by created_at asc`, string(role))
	if err != nil {
		return nil, err
	}
	return collectIdentities(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (Identity, error) {
	var (
		identity Identity
		role     string
		parent   sql.NullString
	)
	err := row.Scan(
		&identity.ID, &identity.Username, &identity.PasswordHash, &role,
		&identity.Permissions.DashboardAccess, &identity.Permissions.HomestayApproval,
		&identity.Permissions.HomestayEdit, &identity.Permissions.HomestayDelete,
		&identity.Permissions.DocumentUpload, &identity.Permissions.ImageUpload,
		&parent, &identity.IsActive, &identity.CreatedAt, &identity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, err
	}
	identity.Role = Role(role)
	identity.ParentTenant = parent.String
	return identity, nil
}

func collectIdentities(rows *sql.Rows) ([]Identity, error) {
	defer rows.Close()
	var res []Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, identity)
	}
	return res, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
