package homestay

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

var _ Store = (*PGStore)(nil)

const homestayColumns = `id, owner_tenant, name, district, address,
	rooms, beds, contact, status, document_path, image_paths,
	created_at, updated_at`

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, h Homestay) error {
	images, err := json.Marshal(h.ImagePaths)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`insert into homestays(id, owner_tenant, name, district, address,
			rooms, beds, contact, status, document_path, image_paths,
			created_at, updated_at)
		values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		h.ID, h.OwnerTenant, h.Name, h.District, h.Address,
		h.Rooms, h.Beds, h.Contact, string(h.Status), h.DocumentPath, images,
		h.CreatedAt, h.UpdatedAt,
	)
	return err
}

func (s *PGStore) Find(ctx context.Context, id string) (Homestay, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+homestayColumns+` from homestays where id = $1`, id)
	return scanHomestay(row)
}

func (s *PGStore) ListByTenant(ctx context.Context, ownerTenant string) ([]Homestay, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+homestayColumns+` from homestays
		where owner_tenant = $1 order by created_at asc`, ownerTenant)
	if err != nil {
		return nil, err
	}
	return collectHomestays(rows)
}

func (s *PGStore) ListAll(ctx context.Context) ([]Homestay, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+homestayColumns+` from homestays order by created_at asc`)
	if err != nil {
		return nil, err
	}
	return collectHomestays(rows)
}

func (s *PGStore) Update(ctx context.Context, h Homestay) error {
	images, err := json.Marshal(h.ImagePaths)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`update homestays set name=$1, district=$2, address=$3, rooms=$4,
			beds=$5, contact=$6, document_path=$7, image_paths=$8, updated_at=$9
		where id = $10`,
		h.Name, h.District, h.Address, h.Rooms,
		h.Beds, h.Contact, h.DocumentPath, images, h.UpdatedAt, h.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from homestays where id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGStore) SetStatus(ctx context.Context, id string, status Status) error {
	res, err := s.db.ExecContext(ctx,
		`update homestays set status=$1, updated_at=now() where id = $2`,
		string(status), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHomestay(row rowScanner) (Homestay, error) {
	var (
		h      Homestay
		status string
		images []byte
	)
	err := row.Scan(
		&h.ID, &h.OwnerTenant, &h.Name, &h.District, &h.Address,
		&h.Rooms, &h.Beds, &h.Contact, &status, &h.DocumentPath, &images,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Homestay{}, ErrNotFound
		}
		return Homestay{}, err
	}
	h.Status = Status(status)
	if len(images) > 0 {
		_ = json.Unmarshal(images, &h.ImagePaths)
	}
	return h, nil
}

func collectHomestays(rows *sql.Rows) ([]Homestay, error) {
	defer rows.Close()
	var res []Homestay
	for rows.Next() {
		h, err := scanHomestay(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, h)
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
