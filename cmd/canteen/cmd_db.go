package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/campuseats/canteen/config"
	"github.com/campuseats/canteen/database/seeders"
	"github.com/campuseats/canteen/pkg/database"
	"github.com/campuseats/canteen/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return database.Connect()
}

// canteen migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		return migration.New(db).Run()
	},
}

// canteen migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		fmt.Println("Rolling back last batch…")
		return migration.New(db).Rollback()
	},
}

// canteen migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		entries, err := migration.New(db).Status()
		if err != nil {
			return err
		}
		fmt.Printf("%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
		for _, e := range entries {
			if e.Applied {
				fmt.Printf("%-60s  %-8s  %d\n", e.Name, "Ran", e.Batch)
			} else {
				fmt.Printf("%-60s  %-8s  -\n", e.Name, "Pending")
			}
		}
		return nil
	},
}

// canteen seed [name…]
var seedCmd = &cobra.Command{
	Use:   "seed [seeder…]",
	Short: "Run database seeders (all by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		fmt.Println("Running seeders…")
		return seeders.Run(db, args...)
	},
}
