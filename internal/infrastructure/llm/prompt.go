package llm

import (
	"fmt"
	"strings"
)

const systemPrompt = "You match grocery receipt text to a household's inventory. You reply with JSON only."

// buildMatchPrompt asks the model to map each OCR name to a known item name or null
func buildMatchPrompt(unmatched, known []string) string {
	var b strings.Builder

	b.WriteString("The following item names were read from a grocery receipt by OCR. ")
	b.WriteString("They may be abbreviated, truncated or contain misread characters ")
	b.WriteString("(for example \"aarut butler\" is \"peanut butter\").\n\n")

	b.WriteString("Receipt items:\n")
	for _, name := range unmatched {
		fmt.Fprintf(&b, "- %s\n", name)
	}

	b.WriteString("\nKnown inventory items:\n")
	for _, name := range known {
		fmt.Fprintf(&b, "- %s\n", name)
	}

	b.WriteString("\nFor each receipt item, choose the known inventory item it most likely refers to. ")
	b.WriteString("Only choose one when you are at least 70% confident; otherwise use null. ")
	b.WriteString("Use the known item names exactly as written.\n\n")
	b.WriteString("Respond with a single JSON object mapping each receipt item to a known item name or null, ")
	b.WriteString("for example {\"aarut butler\": \"Peanut Butter\", \"xyz\": null}.")

	return b.String()
}
