package cli

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	colorable "github.com/mattn/go-colorable"
	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jgrover/DroidWatch/config"
	"github.com/jgrover/DroidWatch/pkg/storage/sqlite"
)

type MigrateHandler struct {
	c *config.Config
}

func newMigrateHandler(c *config.Config) *MigrateHandler {
	return &MigrateHandler{c: c}
}

func getDatabasePath(cmd *cobra.Command, args []string, position int) (path string) {
	if len(args) <= position {
		fmt.Println(cmd.UsageString())
		return
	}
	path = args[position]

	if path == "" {
		fmt.Println(cmd.UsageString())
		return
	}
	return
}

func (h *MigrateHandler) MigrateSQL(cmd *cobra.Command, args []string) {
	path := getDatabasePath(cmd, args, 0)
	if path == "" {
		os.Exit(2) // Return missing keyword or command
	}

	log.SetLevel(log.DebugLevel)
	log.SetFormatter(&log.TextFormatter{
		ForceColors: true,
	})
	log.SetOutput(colorable.NewColorableStdout())

	log.Info("Applying SQL migration...")

	// Open the SQLite database file
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		log.Errorf("An error occurred while opening SQLite: %s", err)
		os.Exit(1)
	}
	defer db.Close()

	// Check the database connection
	if err := db.Ping(); err != nil {
		log.Errorf("An error occurred while opening SQLite: %s", err)
		os.Exit(1)
	}

	// Exec db migrations
	n, err := migrate.Exec(db.DB, "sqlite3", sqlite.Migrations(), migrate.Up)
	if err != nil {
		log.Errorf("An error occurred while running the migrations: %s", err)
		os.Exit(1)
	}
	log.Infof("Migration successful! Applied a total of %d migrations.", n)
}
