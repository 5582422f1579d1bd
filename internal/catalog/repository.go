package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("slug already exists")
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	ListProducts(ctx context.Context, f ListFilter) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) error

	ListBrands(ctx context.Context) ([]Brand, error)
	CreateBrand(ctx context.Context, b *Brand) error
	DeleteBrand(ctx context.Context, id string) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `
	p.id, p.name, p.slug,
	COALESCE(b.name, ''), COALESCE(b.slug, ''),
	COALESCE(c.name, ''), COALESCE(c.slug, ''),
	p.price, COALESCE(p.old_price, 0), COALESCE(p.badge, ''),
	p.in_stock, p.image, COALESCE(p.description, ''),
	p.created_at, p.updated_at`

const productFrom = `
	FROM products p
	LEFT JOIN brands b ON b.id = p.brand_id
	LEFT JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug,
		&p.Brand, &p.BrandSlug,
		&p.Category, &p.CategorySlug,
		&p.Price, &p.OldPrice, &p.Badge,
		&p.InStock, &p.Image, &p.Description,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) ListProducts(ctx context.Context, f ListFilter) ([]Product, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.CategorySlug != "" {
		where = append(where, "c.slug = "+arg(f.CategorySlug))
	}
	if f.BrandSlug != "" {
		where = append(where, "b.slug = "+arg(f.BrandSlug))
	}
	if f.Search != "" {
		where = append(where, "(p.name ILIKE "+arg("%"+f.Search+"%")+" OR p.description ILIKE "+arg("%"+f.Search+"%")+")")
	}
	if f.InStockOnly {
		where = append(where, "p.in_stock")
	}

	query := "SELECT" + productColumns + productFrom
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	switch f.Sort {
	case "price_asc":
		query += " ORDER BY p.price ASC"
	case "price_desc":
		query += " ORDER BY p.price DESC"
	case "name":
		query += " ORDER BY p.name ASC"
	default:
		query += " ORDER BY p.created_at DESC"
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT " + arg(limit) + " OFFSET " + arg(f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return products, nil
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id string) (*Product, error) {
	row := r.pool.QueryRow(ctx, "SELECT"+productColumns+productFrom+" WHERE p.id = $1", id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	row := r.pool.QueryRow(ctx, "SELECT"+productColumns+productFrom+" WHERE p.slug = $1", slug)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select product by slug: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) CreateProduct(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1)`, p.Slug).Scan(&exists); err != nil {
		return fmt.Errorf("check product slug: %w", err)
	}
	if exists {
		return ErrConflict
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, name, slug, description, brand_id, category_id,
			price, old_price, badge, in_stock, image, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''),
			(SELECT id FROM brands WHERE slug = $5),
			(SELECT id FROM categories WHERE slug = $6),
			$7, NULLIF($8, 0), NULLIF($9, ''), $10, $11, NOW(), NOW())
	`, p.ID, p.Name, p.Slug, p.Description, p.BrandSlug, p.CategorySlug,
		p.Price, p.OldPrice, p.Badge, p.InStock, p.Image)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateProduct(ctx context.Context, p *Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name = $2, slug = $3, description = NULLIF($4, ''),
			brand_id = (SELECT id FROM brands WHERE slug = $5),
			category_id = (SELECT id FROM categories WHERE slug = $6),
			price = $7, old_price = NULLIF($8, 0), badge = NULLIF($9, ''),
			in_stock = $10, image = $11, updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, p.Slug, p.Description, p.BrandSlug, p.CategorySlug,
		p.Price, p.OldPrice, p.Badge, p.InStock, p.Image)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return categories, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, c *Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1)`, c.Slug).Scan(&exists); err != nil {
		return fmt.Errorf("check category slug: %w", err)
	}
	if exists {
		return ErrConflict
	}

	if _, err := r.pool.Exec(ctx,
		`INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.Slug); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, c *Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $2, slug = $3 WHERE id = $1`,
		c.ID, c.Name, c.Slug)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListBrands(ctx context.Context) ([]Brand, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM brands ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select brands: %w", err)
	}
	defer rows.Close()

	var brands []Brand
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return brands, nil
}

func (r *PostgresRepository) CreateBrand(ctx context.Context, b *Brand) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM brands WHERE slug = $1)`, b.Slug).Scan(&exists); err != nil {
		return fmt.Errorf("check brand slug: %w", err)
	}
	if exists {
		return ErrConflict
	}

	if _, err := r.pool.Exec(ctx,
		`INSERT INTO brands (id, name, slug) VALUES ($1, $2, $3)`,
		b.ID, b.Name, b.Slug); err != nil {
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteBrand(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
