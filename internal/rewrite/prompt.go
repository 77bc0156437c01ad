// Package rewrite turns one eligible product record into a length-conforming
// SEO title by driving the generation backend through a bounded retry loop.
package rewrite

import "fmt"

// SystemInstructions states the output contract the model has to honor.
func SystemInstructions(maxTitleLength int) string {
	return fmt.Sprintf(`You are an e-commerce SEO expert.
Rewrite the provided Shopify product title so it is concise, descriptive, SEO-friendly, and NO LONGER than %d characters.

OUTPUT RULES (very important):
- Output ONLY the rewritten title on a single line and nothing else. No explanation, no labels, no quotes, no code fences.
- If you cannot include the entire meaning, prioritize main product keywords (brand optional), not minor details such as size, color, or quantity.
- Do NOT end the title with meaningless or hanging words such as 'and', 'with', 'for', 'of', etc.
- Do NOT end the title with any punctuation or symbols like &, ,, ;, :, ., !, ?, etc.
- Ensure the title is complete, readable, and focuses on the most important product information.`, maxTitleLength)
}

// UserPrompt packs the source material for one record. The description is
// expected to be plain text already.
func UserPrompt(title, description string, maxTitleLength int) string {
	return fmt.Sprintf("Original Title: %s\nProduct Description: %s\nNew Title (<= %d chars):", title, description, maxTitleLength)
}
