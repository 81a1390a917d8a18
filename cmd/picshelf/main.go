package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/picshelf/picshelf/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "picshelf",
	Short:   "Image gallery server with object storage backends",
	Long: `Picshelf is an image gallery backend that stores image binaries
in S3 or on the local filesystem and their metadata in SQLite or PostgreSQL.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var configFiles []string
		if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
			configFiles = append(configFiles, configFile)
		}

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (default: sqlite, env: PICSHELF_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: picshelf.db, env: PICSHELF_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("storage-type", "", "object storage backend: s3, filesystem (default: filesystem, env: PICSHELF_STORAGE_TYPE)")
	rootCmd.PersistentFlags().String("storage-path", "", "filesystem storage directory (default: ./data, env: PICSHELF_STORAGE_FILESYSTEM_PATH)")
	rootCmd.PersistentFlags().String("s3-bucket", "", "S3 bucket name (env: PICSHELF_STORAGE_S3_BUCKET)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
