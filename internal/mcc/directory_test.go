package mcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	entry, ok := Lookup("5499")
	require.True(t, ok)
	assert.Equal(t, "Miscellaneous Food Stores", entry.Description)

	_, ok = Lookup("0000")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	t.Run("by description", func(t *testing.T) {
		results := Search("restaurant")
		require.NotEmpty(t, results)
		codes := make([]string, 0, len(results))
		for _, e := range results {
			codes = append(codes, e.Code)
		}
		assert.Contains(t, codes, "5812")
		assert.Contains(t, codes, "5814")
	})

	t.Run("by code prefix", func(t *testing.T) {
		results := Search("54")
		require.NotEmpty(t, results)
		for _, e := range results {
			assert.Contains(t, e.Code, "54")
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, Search("GROCERY"), Search("grocery"))
	})

	t.Run("blank query", func(t *testing.T) {
		assert.Nil(t, Search("   "))
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, Search("zzzzzz"))
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("5499"))
	assert.NoError(t, Validate(" 5499 "))
	assert.Error(t, Validate("549"))
	assert.Error(t, Validate("54999"))
	assert.Error(t, Validate("54a9"))
	assert.Error(t, Validate(""))
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)

	all[0].Code = "XXXX"
	fresh := All()
	assert.NotEqual(t, "XXXX", fresh[0].Code, "mutating the returned slice must not affect the directory")
}
