// Package migration provides a registry-based database migration runner.
//
// Usage (in database/migrations):
//
//	func init() {
//	    migration.Register("20260115000000_create_canteens_table", &CreateCanteensTable{})
//	}
//
//	type CreateCanteensTable struct{}
//	func (m *CreateCanteensTable) Up(db *gorm.DB) error   { return db.AutoMigrate(&models.Canteen{}) }
//	func (m *CreateCanteensTable) Down(db *gorm.DB) error { return db.Migrator().DropTable("canteens") }
//
// Run from the CLI:
//
//	canteen migrate
//	canteen migrate:rollback
package migration

import (
	"fmt"
	"sort"
	"time"

	"github.com/campuseats/canteen/pkg/logger"
	"gorm.io/gorm"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// record tracks one applied migration in the schema_migrations table.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

var registry = map[string]Migration{}

// Register adds a migration under a timestamp-prefixed name so entries
// sort chronologically. Each migration file registers itself in init().
func Register(name string, m Migration) {
	registry[name] = m
}

func sortedNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Runner executes and tracks migrations.
type Runner struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&record{})
}

func (r *Runner) applied() (map[string]record, error) {
	var recs []record
	if err := r.db.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make(map[string]record, len(recs))
	for _, rec := range recs {
		out[rec.Name] = rec
	}
	return out, nil
}

func (r *Runner) lastBatch() int {
	var n int
	r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0)").Scan(&n)
	return n
}

// Run executes all pending migrations as a single batch. Each migration
// and its tracking row commit together, so a failure leaves the schema at
// the last fully-applied migration.
func (r *Runner) Run() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	done, err := r.applied()
	if err != nil {
		return fmt.Errorf("migration: read applied: %w", err)
	}

	batch := r.lastBatch() + 1
	ran := 0
	for _, name := range sortedNames() {
		if _, ok := done[name]; ok {
			continue
		}
		m := registry[name]
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: name, Batch: batch}).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s: %w", name, err)
		}
		logger.Info("migration: applied", "name", name, "batch", batch)
		ran++
	}

	if ran == 0 {
		logger.Info("migration: nothing to migrate")
	}
	return nil
}

// Rollback reverses the most recent batch, newest migration first.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	batch := r.lastBatch()
	if batch == 0 {
		logger.Info("migration: nothing to roll back")
		return nil
	}

	var recs []record
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&recs).Error; err != nil {
		return err
	}

	for _, rec := range recs {
		m, ok := registry[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s, not registered", rec.Name)
		}
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&record{}, rec.ID).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		logger.Info("migration: rolled back", "name", rec.Name)
	}
	return nil
}

// StatusEntry reports one migration's applied state for migrate:status.
type StatusEntry struct {
	Name    string
	Applied bool
	Batch   int
}

// Status lists every registered migration with its applied state.
func (r *Runner) Status() ([]StatusEntry, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	done, err := r.applied()
	if err != nil {
		return nil, err
	}

	var out []StatusEntry
	for _, name := range sortedNames() {
		entry := StatusEntry{Name: name}
		if rec, ok := done[name]; ok {
			entry.Applied = true
			entry.Batch = rec.Batch
		}
		out = append(out, entry)
	}
	return out, nil
}
