package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"arcade/cmd"
	"arcade/database"

	log "github.com/sirupsen/logrus"
)

func main() {
	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error: ", err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := cmd.RunAdmin(ctx, os.Args[2:]); err != nil {
			log.Fatal("Admin command error: ", err)
		}
		return
	}

	// Run the application
	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error: ", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: arcade migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := 1
		if len(os.Args) > 3 {
			n, err := strconv.Atoi(os.Args[3])
			if err != nil {
				return fmt.Errorf("invalid step count %q: %w", os.Args[3], err)
			}
			steps = n
		}
		return database.MigrateDown(steps)
	case "status":
		status, err := database.MigrateStatus()
		if err != nil {
			return err
		}
		if !status.Applied {
			fmt.Println("No migrations applied")
			return nil
		}
		fmt.Printf("Version: %d (dirty: %t)\n", status.Version, status.Dirty)
		return nil
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}
