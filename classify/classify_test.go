package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRule_Invalid(t *testing.T) {
	_, err := NewRule(1, "[unclosed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling pattern")
}

func TestRule_MatchCaseInsensitive(t *testing.T) {
	r, err := NewRule(1, "trader joe")
	require.NoError(t, err)

	assert.True(t, r.Match("TRADER JOES #123"))
	assert.True(t, r.Match("Trader Joe's"))
	assert.False(t, r.Match("WHOLE FOODS"))
}

func TestRule_RegexSyntax(t *testing.T) {
	r, err := NewRule(1, `^payroll .+ deposit$`)
	require.NoError(t, err)

	assert.True(t, r.Match("PAYROLL ACME DEPOSIT"))
	assert.False(t, r.Match("PAYROLL DEPOSIT FEE REFUND"))
}

func TestFirst(t *testing.T) {
	groceries, err := NewRule(1, "trader joe|whole foods")
	require.NoError(t, err)
	subscriptions, err := NewRule(2, "github|netflix")
	require.NoError(t, err)
	rules := []Rule{groceries, subscriptions}

	got := First(rules, "GITHUB *PRO SUBSCRIPTION")
	require.NotNil(t, got)
	assert.Equal(t, 2, got.ID)

	assert.Nil(t, First(rules, "SHELL OIL 574"))

	// Order decides ties: the first listed rule wins.
	both, err := NewRule(3, "github")
	require.NoError(t, err)
	got = First([]Rule{both, subscriptions}, "GITHUB *PRO SUBSCRIPTION")
	require.NotNil(t, got)
	assert.Equal(t, 3, got.ID)
}
