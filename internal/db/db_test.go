package db

import (
	"testing"

	"github.com/mercadovecino/backend/internal/config"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "tcp host",
			cfg:  config.Config{DBHost: "localhost", DBPort: "5432", DBUser: "app", DBPassword: "secret", DBName: "mercado", DBSSLMode: "disable"},
			want: "host=localhost port=5432 user=app password=secret dbname=mercado sslmode=disable TimeZone=UTC",
		},
		{
			name: "cloud sql unix socket",
			cfg:  config.Config{DBHost: "/cloudsql/proj:region:inst", DBPort: "5432", DBUser: "app", DBPassword: "secret", DBName: "mercado", DBSSLMode: "disable"},
			want: "host=/cloudsql/proj:region:inst user=app password=secret dbname=mercado sslmode=disable TimeZone=UTC",
		},
		{
			name: "require ssl",
			cfg:  config.Config{DBHost: "db.internal", DBPort: "6432", DBUser: "app", DBPassword: "secret", DBName: "mercado", DBSSLMode: "require"},
			want: "host=db.internal port=6432 user=app password=secret dbname=mercado sslmode=require TimeZone=UTC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildDSN(&tt.cfg); got != tt.want {
				t.Fatalf("got=%q want=%q", got, tt.want)
			}
		})
	}
}
