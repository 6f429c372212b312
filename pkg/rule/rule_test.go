package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("literal", func(t *testing.T) {
		r, err := Parse("show interface")
		require.NoError(t, err)
		assert.Equal(t, KindLiteral, r.Kind())
		assert.Equal(t, "show interface", r.String())
	})

	t.Run("regex", func(t *testing.T) {
		r, err := Parse("/^show (ip )?route/")
		require.NoError(t, err)
		assert.Equal(t, KindRegex, r.Kind())
	})

	t.Run("single slash is literal", func(t *testing.T) {
		r, err := Parse("/")
		require.NoError(t, err)
		assert.Equal(t, KindLiteral, r.Kind())
	})

	t.Run("malformed regex", func(t *testing.T) {
		_, err := Parse("/show [interface/")
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Parse("  ")
		assert.ErrorIs(t, err, ErrEmptyRule)
	})
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		rule     string
		expected bool
	}{
		{"substring", "show interface ether1", "show interface", true},
		{"case insensitive literal", "SHOW INTERFACE", "show interface", true},
		{"no substring", "show ip route", "show interface", false},
		{"regex", "show ip route 10.0.0.0", "/^show (ip )?route/", true},
		{"case insensitive regex", "SHOW ROUTE", "/^show (ip )?route/", true},
		{"regex miss", "reload", "/^show/", false},
		{"malformed regex fails closed", "show [x", "/show [/", false},
		{"empty rule never matches", "anything", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Match(tt.text, tt.rule))
		})
	}
}

func TestParseList(t *testing.T) {
	list, err := ParseList([]string{"reload", "/^erase/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"reload", "/^erase/"}, list.Strings())

	_, err = ParseList([]string{"reload", "/(/", "/[/"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule 1")
	assert.Contains(t, err.Error(), "rule 2")
}

func TestIsAllowed(t *testing.T) {
	assert.False(t, IsAllowed("show interface", nil), "empty allow list admits nothing")
	assert.True(t, IsAllowed("show interface", CompileList([]string{"show"})))
	assert.False(t, IsAllowed("reload", CompileList([]string{"show"})))
}

func TestSetEvaluate(t *testing.T) {
	set := Set{
		Allow:     CompileList([]string{"show", "reload"}),
		Deny:      CompileList([]string{"reload"}),
		Dangerous: CompileList([]string{"reload", "/^show run/"}),
	}

	tests := []struct {
		text      string
		verdict   Verdict
		dangerous bool
	}{
		{"show interface", Allowed, false},
		{"show running-config", Allowed, true},
		{"reload", BlockedByDenyList, true},
		{"configure terminal", BlockedByAllowList, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			verdict, dangerous := set.Evaluate(tt.text)
			assert.Equal(t, tt.verdict, verdict)
			assert.Equal(t, tt.dangerous, dangerous)
		})
	}
}

func TestEnumNames(t *testing.T) {
	assert.Equal(t, []string{"literal", "regex"}, KindStrings())
	assert.Equal(t, "regex", KindRegex.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())

	assert.Equal(t, []string{"allowed", "blocked_by_allow_list", "blocked_by_deny_list"}, VerdictStrings())
	v, err := VerdictString("blocked_by_deny_list")
	require.NoError(t, err)
	assert.Equal(t, BlockedByDenyList, v)
	assert.False(t, Verdict(3).IsAVerdict())
}
