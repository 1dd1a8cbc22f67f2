package naming

import (
	"fmt"
	"strings"
)

// SystemPrompt is the system-role instruction sent with every generation.
const SystemPrompt = "You are an expert in creative naming for modern apps and SaaS."

var referenceNames = []string{"clarq", "sage", "emma", "sonnie", "cluely", "notion", "slack", "figma", "vercel", "linear"}

var industryHints = map[string]string{
	"tech":         "with a subtle technological connotation",
	"finance":      "evoking trust and financial modernity",
	"healthcare":   "with a touch of wellness and care",
	"education":    "suggesting learning and growth",
	"ecommerce":    "evoking commerce and exchange",
	"marketing":    "with a creative, impactful connotation",
	"productivity": "suggesting efficiency and optimization",
	"creative":     "with an artistic, innovative touch",
}

var styleHints = map[string]string{
	"modern":       "favor endings in -ly, -x, -r, -q",
	"minimalist":   "ultra-short, clean names (4-5 letters)",
	"playful":      "with playful, cheerful sounds",
	"professional": "evoking seriousness and expertise",
	"creative":     "inventive names with unexpected combinations",
	"tech":         "with strong consonants and tech endings",
}

// BuildPrompt renders the user prompt asking the model for count names as a
// bare JSON array. Unknown industry or style values add no hint.
func BuildPrompt(description, industry, style string, count int) string {
	builder := &strings.Builder{}
	builder.WriteString("You are an expert in creating modern brand names for apps and SaaS.\n\n")
	fmt.Fprintf(builder, "MISSION: Generate %d unique, modern names for this app/SaaS:\n", count)
	fmt.Fprintf(builder, "\"%s\"\n\n", description)

	builder.WriteString("REQUIRED CHARACTERISTICS:\n")
	builder.WriteString("- Short names (ideally 4-8 letters)\n")
	builder.WriteString("- Modern, memorable sound\n")
	builder.WriteString("- Easy to pronounce and spell\n")
	fmt.Fprintf(builder, "- Contemporary style like: %s\n", strings.Join(referenceNames[:7], ", "))
	builder.WriteString("- Avoid generic or overly descriptive words\n")
	builder.WriteString("- Invented but natural-sounding names\n")
	builder.WriteString("- Harmonious mix of consonants and vowels\n\n")

	if hint, ok := lookupHint(industryHints, industry); ok {
		fmt.Fprintf(builder, "INDUSTRY CONTEXT: %s\n", hint)
	}
	if hint, ok := lookupHint(styleHints, style); ok {
		fmt.Fprintf(builder, "STYLE: %s\n", hint)
	}

	fmt.Fprintf(builder, "\nRESPONSE FORMAT: Reply only with a JSON array of %d names, with no other text:\n", count)
	builder.WriteString(`["name1", "name2", "name3", ...]` + "\n\n")
	builder.WriteString("INSPIRATION EXAMPLES: clarq, sage, emma, sonnie, cluely, ryze, flux, qlix, vexo, nexu")
	return builder.String()
}

func lookupHint(hints map[string]string, key string) (string, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", false
	}
	hint, ok := hints[key]
	return hint, ok
}
