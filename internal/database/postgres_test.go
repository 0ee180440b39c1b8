package database

import (
	"testing"

	"github.com/Kosench/traced-url-shortener/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{
			name: "default sslmode",
			cfg:  config.DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "urls"},
			want: "postgres://u:p@db:5432/urls?sslmode=disable",
		},
		{
			name: "explicit sslmode",
			cfg:  config.DatabaseConfig{Host: "db", Port: "6543", User: "u", Password: "p", DBName: "urls", SSLMode: "require"},
			want: "postgres://u:p@db:6543/urls?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PostgresDSN(tt.cfg))
		})
	}
}
