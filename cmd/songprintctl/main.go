package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dshills/songprint/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "songprintctl",
	Short: "CLI tool for the songprint fingerprint store",
	Long:  `A command-line interface for inspecting and maintaining a songprint fingerprint database.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a fingerprint database",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Printf("Fingerprint database initialized at %s (schema %s)\n", resolveDBPath(), storage.CurrentSchemaVersion)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store counts and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to read stats: %w", err)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			out, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("Songs:               %d\n", stats.Songs)
		fmt.Printf("Fingerprinted songs: %d\n", stats.FingerprintedSongs)
		fmt.Printf("Fingerprints:        %d\n", stats.Fingerprints)
		fmt.Printf("Database size:       %.2f MB\n", stats.DatabaseSizeMB)
		fmt.Printf("Schema version:      %s\n", stats.SchemaVersion)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List fully fingerprinted songs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		songs, err := store.ListCompletedSongs(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list songs: %w", err)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			out, err := json.MarshalIndent(songs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		if len(songs) == 0 {
			fmt.Println("No fingerprinted songs")
			return nil
		}
		for _, song := range songs {
			fmt.Printf("%d\t%s\t%d hashes\n", song.ID, song.Name, song.TotalHashes)
		}
		return nil
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete songs whose ingest never finished",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		deleted, err := store.DeleteUnfingerprintedSongs(context.Background())
		if err != nil {
			return fmt.Errorf("failed to purge: %w", err)
		}

		fmt.Printf("Purged %d unfingerprinted songs\n", deleted)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <song-id>...",
	Short: "Delete songs and their fingerprints by ID",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid song ID %q: %w", arg, err)
			}
			ids = append(ids, id)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		deleted, err := store.DeleteSongs(context.Background(), ids)
		if err != nil {
			return fmt.Errorf("failed to delete songs: %w", err)
		}

		fmt.Printf("Deleted %d of %d songs\n", deleted, len(ids))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("songprintctl\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
	},
}

// resolveDBPath applies flag > environment > default precedence
func resolveDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("SONGPRINT_DB"); env != "" {
		return env
	}
	return "songprint.db"
}

func openStore() (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(resolveDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database file path (default $SONGPRINT_DB, then songprint.db)")

	statsCmd.Flags().Bool("json", false, "Output as JSON")
	listCmd.Flags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		initCmd,
		statsCmd,
		listCmd,
		purgeCmd,
		deleteCmd,
		versionCmd,
	)
}

func main() {
	// A .env file can supply SONGPRINT_DB; a missing file is fine
	_ = godotenv.Load()

	log.SetOutput(os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
