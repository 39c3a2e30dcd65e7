package viz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanvas_Set(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	assert.Equal(t, rune(blank|0x1), c.Grid[0][0])
	assert.Equal(t, rune(blank|0x80), c.Grid[0][1])

	c.Clear()
	assert.Equal(t, rune(blank), c.Grid[0][0])

	// out of range is ignored
	c.Set(-1, 0)
	c.Set(100, 100)
}

func TestCanvas_PenColorsCells(t *testing.T) {
	c := NewCanvas(4, 2)
	c.SetPen("#ff0000")
	c.DrawLine(0, 0, 7, 0)
	for col := 0; col < 4; col++ {
		assert.Equal(t, "#ff0000", c.Colors[0][col])
		assert.NotEqual(t, rune(blank), c.Grid[0][col])
	}
	assert.Equal(t, "", c.Colors[1][0])

	c.Clear()
	assert.Equal(t, "", c.Colors[0][0])
	assert.Equal(t, rune(blank), c.Grid[0][0])
}

func TestCanvas_FillCircle(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillCircle(10, 10, 2)
	assert.NotEqual(t, rune(blank), c.Grid[2][5])
	assert.NotEqual(t, rune(blank), c.Grid[2][4])
	assert.Equal(t, rune(blank), c.Grid[0][0])
}

func TestCanvas_TextOverlay(t *testing.T) {
	c := NewCanvas(6, 2)
	c.FillCircle(2, 2, 3)
	c.PutText(4, 1, "abc")

	lines := strings.Split(c.String(), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[1], "ab"), "clipped text expected, got %q", lines[1])
	assert.Contains(t, c.Render(), "ab")
}

func TestGradientText(t *testing.T) {
	assert.Equal(t, "", GradientText("", "#000000", "#ffffff"))
	assert.NotEmpty(t, GradientText("x", "#000000", "#ffffff"))
	assert.Equal(t, "#0a0b0c", hexColor(parseHex("#0A0B0C")))
}

func TestThemes(t *testing.T) {
	assert.Equal(t, ThemeSlate, GetTheme("nope"))
	assert.Equal(t, ThemeRetroGreen, NextTheme(ThemeSlate))
	assert.Equal(t, Themes[0], NextTheme(Themes[len(Themes)-1]))
	assert.Len(t, ThemeNames(), len(Themes))
}
