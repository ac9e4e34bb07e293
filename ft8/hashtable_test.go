package ft8

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashTableRoundTripsAllThreeWidths(t *testing.T) {
	ht := NewCallsignHashTable(time.Hour)
	n22, n12, n10, ok := ht.SaveCallsign("N0YPR")
	require.True(t, ok)

	got22, found := ht.LookupHash(Hash22Bits, n22)
	require.True(t, found)
	assert.Equal(t, "N0YPR", got22)

	got12, found := ht.LookupHash(Hash12Bits, uint32(n12))
	require.True(t, found)
	assert.Equal(t, "N0YPR", got12)

	got10, found := ht.LookupHash(Hash10Bits, uint32(n10))
	require.True(t, found)
	assert.Equal(t, "N0YPR", got10)
}

func TestHashTableLookupMissReturnsNotFound(t *testing.T) {
	ht := NewCallsignHashTable(time.Hour)
	_, found := ht.LookupHash(Hash22Bits, 0xABCDEF)
	assert.False(t, found)
}

func TestHashTableCleanupRemovesExpiredEntries(t *testing.T) {
	ht := NewCallsignHashTable(-time.Second) // everything is immediately stale
	ht.SaveCallsign("N0YPR")
	require.Equal(t, 1, ht.Size())

	removed := ht.Cleanup()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, ht.Size())
}

func TestHashTableClearEmptiesAllIndexes(t *testing.T) {
	ht := NewCallsignHashTable(time.Hour)
	n22, _, _, _ := ht.SaveCallsign("W1AW")
	ht.Clear()

	assert.Equal(t, 0, ht.Size())
	_, found := ht.LookupHash(Hash22Bits, n22)
	assert.False(t, found)
}

func TestHashTableRejectsUnencodableCallsign(t *testing.T) {
	ht := NewCallsignHashTable(time.Hour)
	_, _, _, ok := ht.SaveCallsign("@@@@@@@@@@@@")
	assert.False(t, ok)
}
