package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// PlaceholderStyle selects how query parameters are written.
type PlaceholderStyle int

const (
	PlaceholderQuestion PlaceholderStyle = iota
	PlaceholderDollar
)

// OpenDB connects to a catalog database and pings it. The sqlite driver must
// be registered by the caller (blank import of modernc.org/sqlite).
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	var db *sql.DB
	switch driver {
	case DriverSQLite:
		var err error
		if db, err = sql.Open(DriverSQLite, sqliteDSN(dsn)); err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	case DriverPostgres:
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		db = stdlib.OpenDB(*cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q (want %s or %s)", driver, DriverSQLite, DriverPostgres)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return db, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&_pragma=foreign_keys(1)"
	}
	return dsn + "?_pragma=foreign_keys(1)"
}

// StyleFor returns the placeholder style of a driver.
func StyleFor(driver string) PlaceholderStyle {
	if driver == DriverPostgres {
		return PlaceholderDollar
	}
	return PlaceholderQuestion
}

// rebind rewrites '?' placeholders for the given style.
func rebind(query string, style PlaceholderStyle) string {
	if style != PlaceholderDollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS properties (
		id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS property_values (
		property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (property_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS operators (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		text TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_values (
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		str_value TEXT,
		num_value DOUBLE PRECISION,
		PRIMARY KEY (product_id, property_id)
	)`,
}

// Store reads and writes catalogs in a SQL database. It implements Source.
type Store struct {
	DB    *sql.DB
	Style PlaceholderStyle
}

// NewStore wraps an open database.
func NewStore(db *sql.DB, style PlaceholderStyle) *Store {
	return &Store{DB: db, Style: style}
}

// Init creates the catalog tables if they do not exist.
func (s *Store) Init(ctx context.Context) error {
	for _, stmt := range schemaDDL {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Save replaces the stored catalog with c in a single transaction.
func (s *Store) Save(ctx context.Context, c *Catalog) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, rebind(query, s.Style), args...)
		return err
	}

	for _, table := range []string{"product_values", "products", "property_values", "properties", "operators"} {
		if err = exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, p := range c.Properties() {
		if err = exec(`INSERT INTO properties (id, position, name, type) VALUES (?, ?, ?, ?)`, p.ID, i, p.Name, string(p.Type)); err != nil {
			return fmt.Errorf("insert property %d: %w", p.ID, err)
		}
		for j, v := range p.Values {
			if err = exec(`INSERT INTO property_values (property_id, position, value) VALUES (?, ?, ?)`, p.ID, j, v); err != nil {
				return fmt.Errorf("insert property %d value: %w", p.ID, err)
			}
		}
	}

	for i, o := range c.Operators() {
		if err = exec(`INSERT INTO operators (id, position, text) VALUES (?, ?, ?)`, o.ID, i, o.Text); err != nil {
			return fmt.Errorf("insert operator %s: %w", o.ID, err)
		}
	}

	for i, p := range c.Products() {
		if err = exec(`INSERT INTO products (id, position) VALUES (?, ?)`, p.ID, i); err != nil {
			return fmt.Errorf("insert product %d: %w", p.ID, err)
		}
		for j, pv := range p.PropertyValues {
			var str sql.NullString
			var num sql.NullFloat64
			if pv.Value.IsNumber() {
				f, _ := pv.Value.Number()
				num = sql.NullFloat64{Float64: f, Valid: true}
			} else {
				str = sql.NullString{String: pv.Value.String(), Valid: true}
			}
			if err = exec(`INSERT INTO product_values (product_id, property_id, position, str_value, num_value) VALUES (?, ?, ?, ?, ?)`,
				p.ID, pv.PropertyID, j, str, num); err != nil {
				return fmt.Errorf("insert product %d value: %w", p.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Properties implements Source.
func (s *Store) Properties(ctx context.Context) ([]Property, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, type FROM properties ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var props []Property
	index := make(map[int]int)
	for rows.Next() {
		var p Property
		var typ string
		if err := rows.Scan(&p.ID, &p.Name, &typ); err != nil {
			return nil, err
		}
		p.Type = PropertyType(typ)
		index[p.ID] = len(props)
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Release the connection before the next query; sqlite runs on one.
	if err := rows.Close(); err != nil {
		return nil, err
	}

	vrows, err := s.DB.QueryContext(ctx, `SELECT property_id, value FROM property_values ORDER BY property_id, position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = vrows.Close() }()

	for vrows.Next() {
		var id int
		var v string
		if err := vrows.Scan(&id, &v); err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			props[i].Values = append(props[i].Values, v)
		}
	}
	return props, vrows.Err()
}

// Operators implements Source.
func (s *Store) Operators(ctx context.Context) ([]Operator, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, text FROM operators ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ops []Operator
	for rows.Next() {
		var o Operator
		if err := rows.Scan(&o.ID, &o.Text); err != nil {
			return nil, err
		}
		ops = append(ops, o)
	}
	return ops, rows.Err()
}

// Products implements Source.
func (s *Store) Products(ctx context.Context) ([]Product, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id FROM products ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []Product
	index := make(map[int]int)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		index[id] = len(products)
		products = append(products, Product{ID: id})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Release the connection before the next query; sqlite runs on one.
	if err := rows.Close(); err != nil {
		return nil, err
	}

	vrows, err := s.DB.QueryContext(ctx,
		`SELECT product_id, property_id, str_value, num_value FROM product_values ORDER BY product_id, position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = vrows.Close() }()

	for vrows.Next() {
		var productID, propertyID int
		var str sql.NullString
		var num sql.NullFloat64
		if err := vrows.Scan(&productID, &propertyID, &str, &num); err != nil {
			return nil, err
		}
		i, ok := index[productID]
		if !ok {
			continue
		}
		value := StringValue(str.String)
		if num.Valid {
			value = NumberValue(num.Float64)
		}
		products[i].PropertyValues = append(products[i].PropertyValues, PropertyValue{PropertyID: propertyID, Value: value})
	}
	return products, vrows.Err()
}
