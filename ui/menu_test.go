package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskdeck/keys"
)

func TestMenuStates(t *testing.T) {
	m := NewMenu()
	m.SetSize(120, 1)

	m.SetState(StateDefault)
	out := m.String()
	assert.Contains(t, out, "new")
	assert.Contains(t, out, "delete")
	assert.Contains(t, out, "quit")

	// No selected task: the task actions disappear.
	m.SetState(StateEmpty)
	out = m.String()
	assert.Contains(t, out, "new")
	assert.NotContains(t, out, "delete")

	m.SetState(StateEditing)
	out = m.String()
	assert.Contains(t, out, "submit")
	assert.NotContains(t, out, "quit")

	m.SetState(StateConfirm)
	out = m.String()
	assert.Contains(t, out, "confirm")
	assert.Contains(t, out, "cancel")

	m.SetState(StateVisual)
	out = m.String()
	assert.Contains(t, out, "visual")
	assert.Contains(t, out, "toggle done")
	assert.NotContains(t, out, "new")
}

func TestMenuKeydownUnderlines(t *testing.T) {
	m := NewMenu()
	m.SetSize(120, 1)

	plain := m.String()
	m.Keydown(keys.KeyNew)
	underlined := m.String()
	assert.NotEqual(t, plain, underlined)

	m.ClearKeydown()
	assert.Equal(t, plain, m.String())
}
