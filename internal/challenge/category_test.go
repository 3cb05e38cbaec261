package challenge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategories_Validate(t *testing.T) {
	tests := []struct {
		name     string
		cats     Categories
		wantErr  bool
		reason   ConfigReason
		category string
	}{
		{
			name: "valid",
			cats: Categories{"a": {"1", "2", "3"}, "b": {"4", "5", "6"}},
		},
		{
			name:    "nil table",
			cats:    nil,
			wantErr: true,
			reason:  ReasonTooFewCategories,
		},
		{
			name:    "single category",
			cats:    Categories{"a": {"1", "2", "3"}},
			wantErr: true,
			reason:  ReasonTooFewCategories,
		},
		{
			name:     "empty category",
			cats:     Categories{"a": {"1", "2", "3"}, "b": nil},
			wantErr:  true,
			reason:   ReasonTooFewClips,
			category: "b",
		},
		{
			name:     "two clips only",
			cats:     Categories{"a": {"1", "2"}, "b": {"4", "5", "6"}},
			wantErr:  true,
			reason:   ReasonTooFewClips,
			category: "a",
		},
		{
			name:    "blank name",
			cats:    Categories{" ": {"1", "2", "3"}, "b": {"4", "5", "6"}},
			wantErr: true,
			reason:  ReasonEmptyName,
		},
		{
			name:     "blank clip",
			cats:     Categories{"a": {"1", "", "3"}, "b": {"4", "5", "6"}},
			wantErr:  true,
			reason:   ReasonEmptyClip,
			category: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cats.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, tt.reason, cfgErr.Reason)
			require.Equal(t, tt.category, cfgErr.Category)
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		expected string
	}{
		{
			name:     "too few categories",
			err:      &ConfigError{Reason: ReasonTooFewCategories, Count: 1},
			expected: "invalid categories: need at least 2 categories, got 1",
		},
		{
			name:     "too few clips",
			err:      &ConfigError{Reason: ReasonTooFewClips, Category: "frog", Count: 0},
			expected: `invalid categories: category "frog" needs at least 3 clips, got 0`,
		},
		{
			name:     "empty name",
			err:      &ConfigError{Reason: ReasonEmptyName},
			expected: "invalid categories: category name is empty",
		},
		{
			name:     "empty clip",
			err:      &ConfigError{Reason: ReasonEmptyClip, Category: "door", Count: 2},
			expected: `invalid categories: category "door" clip 2 is empty`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestCategories_NamesSorted(t *testing.T) {
	cats := Categories{"train": {}, "bird": {}, "frog": {}}
	require.Equal(t, []string{"bird", "frog", "train"}, cats.Names())
}

func TestCategories_CloneIsDeep(t *testing.T) {
	cats := Categories{"a": {"1", "2", "3"}}
	clone := cats.Clone()
	clone["a"][0] = "changed"
	require.Equal(t, "1", cats["a"][0])
}

func TestCategories_ClipCount(t *testing.T) {
	require.Equal(t, 7, Categories{"a": {"1", "2", "3"}, "b": {"4", "5", "6", "7"}}.ClipCount())
}
