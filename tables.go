package picshelf

import (
	"errors"
	"fmt"
	"regexp"
)

// Tables holds configurable table names for metadata storage. This allows a
// shared database to host more than one gallery.
type Tables struct {
	Images string `mapstructure:"images"`
	Users  string `mapstructure:"users"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric
// with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Images == "" {
		return errors.New("validate tables: images table name cannot be empty")
	}
	if t.Users == "" {
		return errors.New("validate tables: users table name cannot be empty")
	}

	for _, name := range []string{t.Images, t.Users} {
		if !IsValidTableName(name) {
			return fmt.Errorf("validate tables: invalid table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", name)
		}
	}

	return nil
}
