package itf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDBName(t *testing.T) {
	assert.Equal(t, "testanimalrepository_create", sanitizeDBName("TestAnimalRepository/Create"))
	assert.Equal(t, "a_b_c", sanitizeDBName("a -- b (c)"))
	assert.Equal(t, "test_db", sanitizeDBName("///"))

	long := "TestImportService_" + strings.Repeat("Segment_", 10) + "Tail"
	got := sanitizeDBName(long)
	assert.LessOrEqual(t, len(got), maxDBNameLength)
	assert.NotEqual(t, got, sanitizeDBName(long+"2"))
}

func TestIntelligentTruncate(t *testing.T) {
	assert.Equal(t, "short", intelligentTruncate("short", 10))
	assert.Equal(t, "first_last", intelligentTruncate("first_middle_part_last", 12))
	assert.Equal(t, "abcdefgh", intelligentTruncate("abcdefghijkl", 8))
}
