package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/app", "postgres://u:p@localhost:5432/app"},
		{"  'postgres://u@host/app'  ", "postgres://u@host/app"},
		{"host=localhost user=app dbname=app", "host=localhost user=app dbname=app sslmode=disable"},
		{"host=localhost   user=app  dbname=app sslmode=require", "host=localhost user=app dbname=app sslmode=require"},
		{"file:canable.db", "file:canable.db"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeDSN(tc.in); got != tc.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsPostgres(t *testing.T) {
	if !IsPostgres("postgres://u@host/app") || !IsPostgres("host=h dbname=d") {
		t.Error("postgres DSNs not detected")
	}
	if IsPostgres("file:canable.db") || IsPostgres("articles.sqlite") {
		t.Error("sqlite paths misdetected as postgres")
	}
}
