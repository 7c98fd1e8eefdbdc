package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Migraine")

	assert.Contains(t, prompt, "Disease: Migraine\n")
	assert.Contains(t, prompt, "Suggest 5 Alternative Medicines and 2 Conventional Medicines")
	assert.Contains(t, prompt, "(Provide exactly 5)")
	assert.Contains(t, prompt, "(Provide exactly 2)")
	for _, c := range alternativeCategories {
		assert.Contains(t, prompt, c.category)
	}
	assert.Contains(t, prompt, "**Disclaimer**")

	// header order follows the rendered response layout
	alt := strings.Index(prompt, "**Alternative Medicine**")
	conv := strings.Index(prompt, "**Conventional Medicine**")
	disc := strings.Index(prompt, "**Disclaimer**")
	assert.True(t, alt < conv && conv < disc)
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	assert.Equal(t, BuildPrompt("Common Cold"), BuildPrompt("Common Cold"))
	assert.Equal(t, BuildPrompt("Flu"), BuildPrompt("  Flu "))
	assert.NotEqual(t, BuildPrompt("Flu"), BuildPrompt("Asthma"))
}
