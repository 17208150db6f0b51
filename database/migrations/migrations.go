// Package migrations holds the schema history, one migration per logical
// change. Files self-register via init(), so the blank import in
// cmd/canteen is what makes `canteen migrate` see them.
package migrations
