package bubbletea_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/reel"
	bt "github.com/fwojciec/reel/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestNewStyles(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(reel.DefaultTheme())

	assert.Equal(t, lipgloss.Color("4"), styles.Prompt.GetForeground())
	assert.True(t, styles.Prompt.GetBold())
	assert.Equal(t, lipgloss.Color("3"), styles.Active.GetForeground())
	assert.Equal(t, lipgloss.Color("1"), styles.Error.GetForeground())
	assert.Equal(t, lipgloss.Color("2"), styles.Success.GetForeground())
	assert.Equal(t, lipgloss.Color("8"), styles.Muted.GetForeground())
	assert.True(t, styles.Muted.GetFaint())
	assert.Equal(t, lipgloss.Color("5"), styles.Accent.GetForeground())
	assert.True(t, styles.Accent.GetBold())
}

func TestNewStylesNegativeIndexYieldsNoColor(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(reel.Theme{Prompt: -1})

	assert.Equal(t, lipgloss.NoColor{}, styles.Prompt.GetForeground())
}
