// Package seeders registers named seed functions and runs them on demand.
//
// A seeder lives in any file of this package and registers itself:
//
//	func init() {
//	    seeders.Register("catalog", SeedCatalog)
//	}
//
// `canteen seed` runs everything; `canteen seed catalog` runs a subset.
package seeders

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc is the signature for a seed function.
type SeederFunc func(db *gorm.DB) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder under name. Registration order is execution
// order, so dependent seeders register after their prerequisites.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder, stopping on the first error.
func RunAll(db *gorm.DB) error {
	return run(db, nil)
}

// Run executes only the named seeders, in registration order. Unknown
// names are an error.
func Run(db *gorm.DB, names ...string) error {
	if len(names) == 0 {
		return RunAll(db)
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	return run(db, want)
}

func run(db *gorm.DB, want map[string]bool) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if want != nil {
		known := make(map[string]bool, len(current))
		for _, e := range current {
			known[e.name] = true
		}
		for n := range want {
			if !known[n] {
				return fmt.Errorf("unknown seeder %q", n)
			}
		}
	}

	ran := 0
	for _, e := range current {
		if want != nil && !want[e.name] {
			continue
		}
		fmt.Printf("seeding %s... ", e.name)
		if err := e.fn(db); err != nil {
			fmt.Println("failed")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Println("ok")
		ran++
	}
	if ran == 0 {
		fmt.Println("nothing to seed")
	}
	return nil
}
