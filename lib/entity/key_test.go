package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type yearArg int

func (y yearArg) CacheKey() string { return "season" }

func TestCallKey(t *testing.T) {
	team := &fakeTeam{id: "nwe"}
	when := time.Unix(1441852200, 0)

	testCases := []struct {
		name     string
		op       string
		args     []any
		expected string
	}{
		{
			name:     "no args",
			op:       "name",
			expected: "name",
		},
		{
			name:     "primitive args",
			op:       "roster",
			args:     []any{2015, true},
			expected: "roster\x1f2015\x1ftrue",
		},
		{
			name:     "entity arg reduces to natural key",
			op:       "head_to_head",
			args:     []any{team},
			expected: "head_to_head\x1ftest/team:nwe",
		},
		{
			name:     "keyer arg",
			op:       "stats",
			args:     []any{yearArg(2015)},
			expected: "stats\x1fseason",
		},
		{
			name:     "time arg",
			op:       "games_after",
			args:     []any{when},
			expected: "games_after\x1f1441852200000000000",
		},
		{
			name:     "string slice arg",
			op:       "merge",
			args:     []any{[]string{"a", "b"}},
			expected: "merge\x1fa\x1eb",
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, CallKey(test.op, test.args...))
		})
	}
}

func TestCallKeyDistinguishesArgOrder(t *testing.T) {
	require.NotEqual(
		t,
		CallKey("op", "a", "b"),
		CallKey("op", "b", "a"),
	)
}
