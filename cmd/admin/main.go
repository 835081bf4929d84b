package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/todopalm/todopalm-api/cmd/admin/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "todopalm-admin",
		Short: "Administration tool for the todopalm API",
		Long:  "CLI tool for managing CORS, rate limit and todo group settings",
	}

	rootCmd.AddCommand(commands.NewCorsCmd())
	rootCmd.AddCommand(commands.NewRatelimitCmd())
	rootCmd.AddCommand(commands.NewGroupCmd())
	rootCmd.AddCommand(commands.NewTestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
