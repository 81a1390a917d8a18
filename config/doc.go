// Package config provides configuration loading and validation for picshelf.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (PICSHELF_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with PICSHELF_ prefix:
//   - server.port → PICSHELF_SERVER_PORT
//   - database.type → PICSHELF_DATABASE_TYPE
//   - auth.jwt_secret → PICSHELF_AUTH_JWT_SECRET
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: port and max_upload_size
//   - Service: cleanup_timeout for background operations
//   - Database: type, DSN, and table names
//   - Storage: backend selection (s3 or filesystem) and its settings
//   - Auth: JWT signing secret, algorithm, and token lifetime
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Storage type must be s3 or filesystem
//   - JWT secret is required and has no default
//   - JWT algorithm must be HS256, HS384, or HS512
//   - Log level must be debug, info, warn, or error
//
// Backend-specific required fields (the S3 bucket, the filesystem path) are
// checked only for the selected storage type.
package config
