package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campuseats/canteen/internal/server"
)

// canteen serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// canteen route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "Print every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := server.BuildForInspection()
		if err != nil {
			return err
		}
		for _, rt := range r.Routes() {
			fmt.Printf("%-7s %-28s %s\n", rt.Method, rt.Name, rt.Pattern)
		}
		return nil
	},
}
