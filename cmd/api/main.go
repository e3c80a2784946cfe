package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mytasks/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mytasks",
		Short: "MyTasks API Server",
		Long:  `MyTasks is a personal productivity backend serving todos, subtasks, birthdays, holidays and calendar views.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewGCCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
