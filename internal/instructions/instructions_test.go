package instructions

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render() string {
	var buf bytes.Buffer
	PrintInstructions(&buf)
	return buf.String()
}

func TestPrintInstructions_Deterministic(t *testing.T) {
	first := render()
	t.Setenv(EnvBotToken, "123:abc")
	require.Equal(t, first, render())
}

func TestPrintInstructions_MentionsCredentials(t *testing.T) {
	out := render()
	assert.Contains(t, out, EnvBotToken)
	assert.Contains(t, out, EnvChatID)
	assert.Contains(t, out, "@BotFather")
}

func TestPrintInstructions_Order(t *testing.T) {
	out := render()

	last := -1
	for i, s := range Steps() {
		heading := fmt.Sprintf("%d. %s", i+1, s.Title)
		idx := strings.Index(out, heading)
		require.Greater(t, idx, last, "step %q out of order", heading)
		last = idx
	}
}

func TestSteps_ReturnsCopy(t *testing.T) {
	got := Steps()
	require.Len(t, got, 5)

	got[0].Title = "changed"
	got[0].Lines[0] = "changed"

	fresh := Steps()
	assert.Equal(t, "Create a Telegram bot", fresh[0].Title)
	assert.NotEqual(t, "changed", fresh[0].Lines[0])
}
