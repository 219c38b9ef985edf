package gen

import (
	"fmt"
	"strings"

	"copysmith-backend/internal/models"
)

// BuildPrompt renders a generation request into the prompt sent to the
// model. The template is deterministic: the same input always produces
// the same prompt.
func BuildPrompt(input models.ProductInput) string {
	tone := input.Tone
	if tone == "" {
		tone = models.ToneProfessional
	}

	var b strings.Builder
	b.WriteString("Generate a high-converting, SEO-optimized product description for the following product:\n\n")
	fmt.Fprintf(&b, "Product Name: %s\n", input.Name)
	fmt.Fprintf(&b, "Key Features: %s\n", input.Features)
	fmt.Fprintf(&b, "Target Audience: %s\n", input.TargetAudience)
	fmt.Fprintf(&b, "Tone of Voice: %s\n\n", tone)
	b.WriteString("The description should include:\n")
	b.WriteString("1. A compelling headline.\n")
	b.WriteString("2. An engaging introduction focusing on benefits.\n")
	b.WriteString("3. A bulleted list of key features/benefits.\n")
	b.WriteString("4. A strong Call to Action (CTA).\n\n")
	b.WriteString("Return the result in clean Markdown format.\n")

	return b.String()
}
