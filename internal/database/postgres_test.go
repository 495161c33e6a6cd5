package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"001_initial_schema.sql", 1},
		{"012_add_index.sql", 12},
		{"1_short.sql", 1},
		{"README.md", 0},
		{"initial.sql", 0},
		{"abc_schema.sql", 0},
		{"002_notes.txt", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, migrationVersion(tt.name))
		})
	}
}
