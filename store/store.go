package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	models "shopfront/model"
)

const productColumns = `id, title, description, img_src, price, created_at, updated_at`

// insertProductSQL hands back the stored row so callers see what Postgres
// kept, not what was sent.
const insertProductSQL = `INSERT INTO products (id, title, description, img_src, price, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING ` + productColumns

// pgNow is truncated to the microsecond precision of TIMESTAMPTZ.
func pgNow() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// PostgresStore is a Store backed by Postgres.
type PostgresStore struct {
	DB *sqlx.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{DB: db}, nil
}

// NewPostgresStoreFromDB wraps an already opened handle.
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: sqlx.NewDb(db, "postgres")}
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// Migrate applies the schema script.
func (s *PostgresStore) Migrate(ctx context.Context, script string) error {
	if _, err := s.DB.ExecContext(ctx, script); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}

// InsertOne inserts a product and returns it with its generated id.
func (s *PostgresStore) InsertOne(ctx context.Context, in models.ProductInput) (models.Product, error) {
	p := models.NewProduct(uuid.NewString(), in, pgNow())
	var stored models.Product
	if err := s.DB.QueryRowxContext(ctx, insertProductSQL,
		p.ID, p.Title, p.Description, p.ImgSrc, p.Price, p.CreatedAt, p.UpdatedAt,
	).StructScan(&stored); err != nil {
		return models.Product{}, err
	}
	return stored, nil
}

// InsertMany inserts the batch in a single transaction.
func (s *PostgresStore) InsertMany(ctx context.Context, in []models.ProductInput) (out []models.Product, err error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	// rollback on any early return
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PreparexContext(ctx, insertProductSQL)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ts := pgNow()
	out = make([]models.Product, 0, len(in))
	for _, item := range in {
		p := models.NewProduct(uuid.NewString(), item, ts)
		var stored models.Product
		if err = stmt.QueryRowxContext(ctx, p.ID, p.Title, p.Description, p.ImgSrc, p.Price, p.CreatedAt, p.UpdatedAt).StructScan(&stored); err != nil {
			return nil, err
		}
		out = append(out, stored)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) FindAll(ctx context.Context) ([]models.Product, error) {
	out := []models.Product{}
	if err := s.DB.SelectContext(ctx, &out, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := s.DB.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// UpdateByID merges the patch; nil fields keep their stored value.
func (s *PostgresStore) UpdateByID(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	var p models.Product
	err := s.DB.QueryRowxContext(ctx, `
		UPDATE products SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			img_src = COALESCE($4, img_src),
			price = COALESCE($5, price),
			updated_at = $6
		WHERE id = $1
		RETURNING `+productColumns,
		id, patch.Title, patch.Description, patch.ImgSrc, patch.Price, pgNow(),
	).StructScan(&p)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (s *PostgresStore) DeleteByID(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if ra == 0 {
		return ErrNotFound
	}
	return nil
}
