package store

import "testing"

func TestWithDBName(t *testing.T) {
	tests := []struct {
		name     string
		dsn      string
		database string
		want     string
		wantErr  bool
	}{
		{
			name:     "replace path",
			dsn:      "postgres://rail:secret@db:5432/old?sslmode=disable",
			database: "railway",
			want:     "postgres://rail:secret@db:5432/railway?sslmode=disable",
		},
		{
			name:     "postgresql scheme",
			dsn:      "postgresql://db/old",
			database: "railway",
			want:     "postgresql://db/railway",
		},
		{
			name:     "scheme-less",
			dsn:      "rail@db:5432/old",
			database: "railway",
			want:     "postgres://rail@db:5432/railway",
		},
		{name: "empty dsn", dsn: "", database: "railway", wantErr: true},
		{name: "wrong scheme", dsn: "mysql://db/old", database: "railway", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithDBName(tt.dsn, tt.database)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
