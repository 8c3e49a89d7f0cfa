package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name    string
		orderBy string
		desc    bool
		want    string
		wantErr bool
	}{
		{name: "default", want: "id"},
		{name: "created desc", orderBy: "createdAt", desc: true, want: "created_at DESC, id DESC"},
		{name: "company asc", orderBy: "companyName", want: "data->>'companyName' ASC, id ASC"},
		{name: "injection attempt", orderBy: "id; DROP TABLE users", wantErr: true},
		{name: "unknown field", orderBy: "salaryFrom", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := orderClause(tt.orderBy, tt.desc)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidOrder))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreatedAtOf(t *testing.T) {
	def := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := time.Date(2024, 3, 5, 10, 30, 0, 123000000, time.UTC)

	assert.Equal(t, ts, createdAtOf(map[string]any{"createdAt": ts.Format(time.RFC3339Nano)}, def))
	assert.Equal(t, def, createdAtOf(map[string]any{"createdAt": "yesterday"}, def))
	assert.Equal(t, def, createdAtOf(map[string]any{"createdAt": 42}, def))
	assert.Equal(t, def, createdAtOf(map[string]any{}, def))
}
