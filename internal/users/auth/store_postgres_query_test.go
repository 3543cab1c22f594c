// Copyright (c) 2026 Melodia. All rights reserved.

package auth

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// maxPlaceholder returns the highest $N positional parameter in a query.
func maxPlaceholder(query string) int {
	highest := 0
	for _, match := range placeholderPattern.FindAllStringSubmatch(query, -1) {
		n := 0
		for _, digit := range match[1] {
			n = n*10 + int(digit-'0')
		}
		if n > highest {
			highest = n
		}
	}
	return highest
}

/*
TestRenderedQueries checks every Sprintf-rendered statement in the token and
history stores: no leftover format verbs, no missing-argument markers, and a
positional-parameter count matching what the repository method binds.
*/
func TestRenderedQueries(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantArgs int
	}{
		{"session_insert", sessionInsertQuery, 5},
		{"session_find_by_hash", sessionFindByHashQuery, 1},
		{"session_revoke", sessionRevokeQuery, 1},
		{"session_revoke_all", sessionRevokeAllQuery, 1},
		{"session_delete_expired", sessionDeleteExpiredQuery, 1},
		{"reset_insert", resetTokenInsertQuery, 3},
		{"reset_find_active", resetTokenFindActiveQuery, 2},
		{"reset_mark_used", resetTokenMarkUsedQuery, 1},
		{"reset_delete_stale", resetTokenDeleteStaleQuery, 1},
		{"verification_find_valid", verificationTokenFindValidQuery, 2},
		{"verification_delete", verificationTokenDeleteQuery, 1},
		{"verification_delete_expired", verificationTokenDeleteExpiredQuery, 1},
		{"history_insert", loginHistoryInsertQuery, 5},
		{"history_count", loginHistoryCountQuery, 1},
		{"history_list", loginHistoryListQuery, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotContains(t, tt.query, "%!", "Sprintf argument mismatch")
			assert.NotContains(t, tt.query, "(MISSING)")
			assert.NotContains(t, tt.query, "%s", "unrendered format verb")
			assert.Equal(t, tt.wantArgs, maxPlaceholder(tt.query))
		})
	}
}

/*
TestLoginHistoryInsertQuery pins the audit-log insert shape: six columns
ending with createdat (filled by NOW(), not a bind parameter) and a
RETURNING clause yielding id and createdat for the entity scan.
*/
func TestLoginHistoryInsertQuery(t *testing.T) {
	listStart := strings.Index(loginHistoryInsertQuery, "(")
	listEnd := strings.Index(loginHistoryInsertQuery, ")")
	require.Greater(t, listEnd, listStart)

	columns := strings.Split(loginHistoryInsertQuery[listStart+1:listEnd], ",")
	require.Len(t, columns, 6)
	assert.Equal(t, "userid", strings.TrimSpace(columns[0]))
	assert.Equal(t, "createdat", strings.TrimSpace(columns[5]))

	assert.Contains(t, loginHistoryInsertQuery, "VALUES ($1, $2, $3, $4, $5, NOW())")
	assert.Contains(t, loginHistoryInsertQuery, "RETURNING id, createdat")
	assert.NotContains(t, loginHistoryInsertQuery, "id)", "id must not be in the insert column list")
}
