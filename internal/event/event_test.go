package event

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderStampsAndOrders(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rec := NewRecorder(now)
	rec.Emit(DiceRolled, "p1", map[string]any{"value": 3})
	rec.Emit(Moved, "p1", map[string]any{"to": 4})
	rec.Emit(DiceRolled, "p2", nil)

	events := rec.Events()
	require.Len(t, events, 3)
	for _, e := range events {
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, now, e.TS)
	}
	assert.Equal(t, DiceRolled, events[0].Type)
	assert.Equal(t, Moved, events[1].Type)

	rolls := rec.OfType(DiceRolled)
	require.Len(t, rolls, 2)
	assert.Equal(t, "p2", rolls[1].Actor)
}

func TestFormatSortsPayloadKeys(t *testing.T) {
	e := Event{Type: Moved, Actor: "p1", Payload: map[string]any{"to": 4, "path": []int{3, 4}}}
	line := Format(e)
	assert.Contains(t, line, "Moved")
	assert.Contains(t, line, "actor=p1")
	assert.Less(t, strings.Index(line, "path="), strings.Index(line, "to="), "keys render in sorted order")
}
