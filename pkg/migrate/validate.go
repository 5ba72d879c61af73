package migrate

import (
	"fmt"
	"os"
	"strings"
)

// ValidateDir checks migration filenames and goose headers before a deploy.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		version := m[1]
		if existing, ok := seen[version]; ok {
			return fmt.Errorf("duplicate migration version %s (%s and %s)", version, existing, name)
		}
		seen[version] = name

		body, err := os.ReadFile(dir + "/" + name)
		if err != nil {
			return fmt.Errorf("read migration %q: %w", name, err)
		}
		content := string(body)
		if !strings.Contains(content, "-- +goose Up") {
			return fmt.Errorf("migration %q missing +goose Up header", name)
		}
		if !strings.Contains(content, "-- +goose Down") {
			return fmt.Errorf("migration %q missing +goose Down header", name)
		}
	}

	if len(seen) == 0 {
		return fmt.Errorf("no migrations found in %q", dir)
	}
	return nil
}
