package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/authcore/authcore/internal/config"
)

func TestCreate(t *testing.T) {
	base := config.DB{
		Host:     "db.local",
		Port:     3306,
		User:     "auth",
		Password: "pw",
		Name:     "authcore",
	}

	tests := []struct {
		name   string
		mutate func(db *config.DB)
		want   string
	}{
		{
			name: "mysql",
			mutate: func(db *config.DB) {
				db.GormEngine = "mysql"
				db.Extras = "parseTime=True"
			},
			want: "auth:pw@tcp(db.local:3306)/authcore?parseTime=True",
		},
		{
			name: "postgres with extras",
			mutate: func(db *config.DB) {
				db.GormEngine = "postgres"
				db.Port = 5432
				db.Extras = "sslmode=disable"
			},
			want: "host=db.local port=5432 user=auth password=pw dbname=authcore sslmode=disable",
		},
		{
			name: "postgres without extras",
			mutate: func(db *config.DB) {
				db.GormEngine = "postgres"
				db.Port = 5432
			},
			want: "host=db.local port=5432 user=auth password=pw dbname=authcore",
		},
		{
			name:   "sqlite default path",
			mutate: func(db *config.DB) { db.GormEngine = "sqlite" },
			want:   DefaultSQLitePath,
		},
		{
			name: "sqlite memory",
			mutate: func(db *config.DB) {
				db.Path = ":memory:"
			},
			want: ":memory:",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := base
			tc.mutate(&db)

			assert.Equal(t, tc.want, Create(&config.Config{DB: db}))
		})
	}
}
