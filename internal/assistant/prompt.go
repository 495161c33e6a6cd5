package assistant

import (
	"fmt"
	"strings"

	"sgc-backend/internal/models"
)

var serviceCategories = []string{
	"Web Development (WordPress)",
	"AI Solutions",
	"Hosting & Domain Registration",
	"QR Code services",
	"Creative Forms & Branding",
}

// BuildPrompt prefixes the visitor's question with the fixed business context.
// The model receives it as a single user turn.
func BuildPrompt(question string, lang models.Language) string {
	var b strings.Builder

	b.WriteString("You are a helpful AI assistant for SGC, a technology company.\n")
	b.WriteString(fmt.Sprintf("SGC provides: %s.\n", strings.Join(serviceCategories, ", ")))
	b.WriteString("Answer briefly and professionally. ")
	b.WriteString(fmt.Sprintf("Current Language: %s.\n", lang))

	b.WriteString("User question: ")
	b.WriteString(question)

	return b.String()
}
