// Copyright (c) 2026 Melodia. All rights reserved.

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/melodia-app/melodia/pkg/pagination"
)

/*
TestFromRequest covers query parsing, defaults, and clamping.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit_values", "page=3&limit=50", 3, 50},
		{"zero_page_clamped", "page=0", 1, 20},
		{"negative_page_clamped", "page=-5", 1, 20},
		{"zero_limit_clamped", "limit=0", 1, 20},
		{"over_max_limit_clamped", "limit=500", 1, 20},
		{"max_limit_allowed", "limit=100", 1, 100},
		{"non_numeric_ignored", "page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/items?"+tt.query, nil)

			params := pagination.FromRequest(request)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

/*
TestParams_Offset verifies the SQL offset derivation.
*/
func TestParams_Offset(t *testing.T) {
	tests := []struct {
		name   string
		params pagination.Params
		want   int
	}{
		{"first_page", pagination.Params{Page: 1, Limit: 20}, 0},
		{"second_page", pagination.Params{Page: 2, Limit: 20}, 20},
		{"deep_page", pagination.Params{Page: 10, Limit: 25}, 225},
		{"zero_page_safe", pagination.Params{Page: 0, Limit: 20}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.Offset())
		})
	}
}

/*
TestNewMeta checks the derived total-page count.
*/
func TestNewMeta(t *testing.T) {
	tests := []struct {
		name           string
		page, limit    int
		total          int
		wantTotalPages int
	}{
		{"exact_division", 1, 20, 100, 5},
		{"partial_last_page", 1, 20, 101, 6},
		{"empty_result", 1, 20, 0, 0},
		{"single_item", 1, 20, 1, 1},
		{"zero_limit_guard", 1, 0, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := pagination.NewMeta(tt.page, tt.limit, tt.total)

			assert.Equal(t, tt.page, meta.Page)
			assert.Equal(t, tt.limit, meta.Limit)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.wantTotalPages, meta.TotalPages)
		})
	}
}
