package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortFilter_OrderClause(t *testing.T) {
	allowed := map[string]string{"created_at": "created_at", "end": "end_date", "id": "id"}

	tests := []struct {
		name   string
		filter SortFilter
		want   string
	}{
		{"known field", SortFilter{SortBy: "end"}, "end_date ASC, id ASC"},
		{"descending", SortFilter{SortBy: "created_at", SortDesc: true}, "created_at DESC, id DESC"},
		{"unknown falls back", SortFilter{SortBy: "price; DROP TABLE users"}, "created_at ASC, id ASC"},
		{"primary key alone", SortFilter{SortBy: "ID", SortDesc: true}, "id DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.OrderClause(allowed, "created_at"))
		})
	}
}
