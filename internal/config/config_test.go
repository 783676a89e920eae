package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"false": slog.LevelInfo,
		"0":     slog.LevelInfo,
		"1":     slog.LevelDebug,
		"true":  slog.LevelDebug,
		"2":     slog.Level(-8),
	}
	for value, want := range tests {
		t.Run(value, func(t *testing.T) {
			t.Setenv("NADDER_DEBUG", value)
			assert.Equal(t, want, LogLevel())
		})
	}
}

func TestBoolWithDefault(t *testing.T) {
	t.Setenv("NADDER_PREFER_FOREIGN", "")
	assert.True(t, PreferForeign(true))
	assert.False(t, PreferForeign(false))

	t.Setenv("NADDER_PREFER_FOREIGN", "false")
	assert.False(t, PreferForeign(true))

	t.Setenv("NADDER_PREFER_FOREIGN", "'yes please'")
	assert.True(t, PreferForeign(false), "unparsable values count as true")
}

func TestUint(t *testing.T) {
	t.Setenv("NADDER_PRINT_THRESHOLD", "")
	assert.Equal(t, uint(6), PrintThreshold())

	t.Setenv("NADDER_PRINT_THRESHOLD", "10")
	assert.Equal(t, uint(10), PrintThreshold())

	t.Setenv("NADDER_PRINT_THRESHOLD", "ten")
	assert.Equal(t, uint(6), PrintThreshold())
}

func TestVarTrimsQuotes(t *testing.T) {
	t.Setenv("NADDER_ARENA_LIMIT", "  \"4096\" ")
	assert.Equal(t, "4096", Var("NADDER_ARENA_LIMIT"))
	assert.Equal(t, uint(4096), ArenaLimit())
}

func TestAsMapCoversAllVariables(t *testing.T) {
	m := AsMap()
	for _, k := range []string{"NADDER_DEBUG", "NADDER_PREFER_FOREIGN", "NADDER_FREE_FOREIGN", "NADDER_ARENA_LIMIT", "NADDER_PRINT_THRESHOLD"} {
		v, ok := m[k]
		assert.True(t, ok, k)
		assert.Equal(t, k, v.Name)
		assert.NotEmpty(t, v.Description)
	}
	assert.Len(t, Values(), len(m))
}
