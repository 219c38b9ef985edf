package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"copysmith-backend/internal/models"
)

func TestBuildPromptIncludesAllFields(t *testing.T) {
	prompt := BuildPrompt(models.ProductInput{
		Name:           "EcoBottl 2.0",
		Features:       "BPA Free\n24hr retention",
		TargetAudience: "Athletes",
		Tone:           models.ToneProfessional,
	})

	assert.Contains(t, prompt, "Product Name: EcoBottl 2.0")
	assert.Contains(t, prompt, "Key Features: BPA Free\n24hr retention")
	assert.Contains(t, prompt, "Target Audience: Athletes")
	assert.Contains(t, prompt, "Tone of Voice: Professional")
	assert.Contains(t, prompt, "A compelling headline")
	assert.Contains(t, prompt, "introduction focusing on benefits")
	assert.Contains(t, prompt, "bulleted list of key features")
	assert.Contains(t, prompt, "Call to Action")
	assert.Contains(t, prompt, "Markdown")
}

func TestBuildPromptDefaultsTone(t *testing.T) {
	prompt := BuildPrompt(models.ProductInput{Name: "Widget", Features: "small"})

	assert.Contains(t, prompt, "Tone of Voice: Professional")
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	input := models.ProductInput{
		Name:     "Widget",
		Features: "small\nlight",
		Tone:     models.ToneWitty,
	}

	first := BuildPrompt(input)
	second := BuildPrompt(input)

	if first != second {
		t.Fatalf("prompt not deterministic:\n%s\n---\n%s", first, second)
	}
	if strings.Count(first, "Widget") == 0 {
		t.Fatal("prompt does not mention the product")
	}
}
