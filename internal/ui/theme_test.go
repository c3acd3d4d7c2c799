package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[----------]", ProgressBar(0, 10))
	assert.Equal(t, "[#####-----]", ProgressBar(0.5, 10))
	assert.Equal(t, "[##########]", ProgressBar(3, 10))
	assert.Equal(t, "[---]", ProgressBar(-1, 1))
}

func TestCategoryText(t *testing.T) {
	assert.Empty(t, CategoryText(""))
	assert.True(t, strings.Contains(CategoryText("Work"), "#work"))
}

func TestNewPalette(t *testing.T) {
	assert.True(t, NewPalette(true).Dark)
	assert.False(t, NewPalette(false).Dark)
	assert.Contains(t, NewPalette(true).ActiveTab.Render("Vault"), "Vault")
}
