// Package integration runs the order import against a real PostgreSQL started
// with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/orderbridge/backend/migrations"
)

var (
	// Shared container for all tests in a package
	sharedContainer    testcontainers.Container
	sharedContainerMu  sync.Mutex
	sharedContainerDSN string
)

// TestDB represents a test database connection
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// NewSharedTestDB returns a connection to a package wide PostgreSQL container.
// The schema is migrated once; tests call CleanTables to start from empty tables.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	ctx := context.Background()

	if sharedContainer == nil {
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("orderbridge_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "Failed to start shared PostgreSQL container")

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err, "Failed to get connection string")

		_, sqlDB := connectToDatabase(t, dsn)
		runMigrations(t, sqlDB)
		_ = sqlDB.Close()

		sharedContainer = container
		sharedContainerDSN = dsn
	}

	db, sqlDB := connectToDatabase(t, sharedContainerDSN)
	testDB := &TestDB{
		DB:        db,
		SqlDB:     sqlDB,
		Container: sharedContainer,
		DSN:       sharedContainerDSN,
		t:         t,
	}

	// the container outlives the test, only the connection is closed
	t.Cleanup(func() {
		_ = testDB.SqlDB.Close()
	})

	return testDB
}

// CleanupSharedContainer terminates the shared container. Call it from TestMain.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sharedContainer.Terminate(ctx)
		sharedContainer = nil
		sharedContainerDSN = ""
	}
}

// CleanTables truncates all tables except the migration bookkeeping
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to get table names")

	for _, table := range tables {
		err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error
		require.NoError(tdb.t, err, "Failed to truncate table %s", table)
	}
}

// Count returns the number of rows of a table matching the condition
func (tdb *TestDB) Count(table, where string, args ...any) int64 {
	tdb.t.Helper()

	var n int64
	query := tdb.DB.Table(table)
	if where != "" {
		query = query.Where(where, args...)
	}
	require.NoError(tdb.t, query.Count(&n).Error)
	return n
}

// ProductSeed describes a catalog product with its stock item
type ProductSeed struct {
	ID          int64
	SKU         string
	Name        string
	TaxClassID  int64
	Disabled    bool
	Qty         float64
	InStock     bool
	ManageStock bool
}

// SeedProduct inserts a product and its stock item
func (tdb *TestDB) SeedProduct(p ProductSeed) {
	tdb.t.Helper()

	status := 1
	if p.Disabled {
		status = 2
	}
	err := tdb.DB.Exec(`
		INSERT INTO catalog_products (id, sku, name, tax_class_id, status)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.SKU, p.Name, p.TaxClassID, status).Error
	require.NoError(tdb.t, err, "Failed to seed product %d", p.ID)

	err = tdb.DB.Exec(`
		INSERT INTO stock_items (product_id, qty, is_in_stock, manage_stock)
		VALUES (?, ?, ?, ?)
	`, p.ID, p.Qty, p.InStock, p.ManageStock).Error
	require.NoError(tdb.t, err, "Failed to seed stock item %d", p.ID)
}

// SeedTaxRate inserts a rate in percent; storeID 0 is the global rate
func (tdb *TestDB) SeedTaxRate(taxClassID int64, country string, storeID int64, rate string) {
	tdb.t.Helper()

	err := tdb.DB.Exec(`
		INSERT INTO tax_rates (tax_class_id, country_code, store_id, rate)
		VALUES (?, ?, ?, ?)
	`, taxClassID, country, storeID, rate).Error
	require.NoError(tdb.t, err, "Failed to seed tax rate")
}

// SeedWeeeTax inserts a fixed product tax for a product and country
func (tdb *TestDB) SeedWeeeTax(productID int64, country, value string) {
	tdb.t.Helper()

	err := tdb.DB.Exec(`
		INSERT INTO weee_tax (entity_id, country, value)
		VALUES (?, ?, ?)
	`, productID, country, value).Error
	require.NoError(tdb.t, err, "Failed to seed weee tax")
}

// connectToDatabase establishes a GORM connection to the database
func connectToDatabase(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "Failed to get underlying SQL DB")

	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, sqlDB
}

// runMigrations applies the embedded migrations
func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	source, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err, "Failed to open embedded migrations")

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err, "Failed to create migration driver")

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	require.NoError(t, err, "Failed to create migrate instance")

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err, "Failed to run migrations")
	}
}
