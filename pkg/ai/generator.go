package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no provider API key is present.
// Callers are expected to fall back to FallbackDraft rather than fail
// the surrounding workflow.
var ErrNotConfigured = errors.New("text provider not configured")

// FallbackDraft is the fixed placeholder returned to users whenever the
// provider is unavailable or misconfigured.
const FallbackDraft = "AI drafting is unavailable right now. Write the evolution note manually or try again later."

// Note is one entry of the patient's recent history handed to the provider.
type Note struct {
	Date    time.Time
	Content string
}

// TextGenerator drafts an evolution note from session keywords and the
// patient's recent history. Implementations must treat provider errors
// as opaque.
type TextGenerator interface {
	GenerateDraft(ctx context.Context, keywords string, history []Note) (string, error)
}

// buildPrompt renders the instruction block shared by all providers.
func buildPrompt(keywords string, history []Note) string {
	var b strings.Builder
	b.WriteString("Task: write a concise, professional patient evolution note.\n\n")
	b.WriteString("Instructions:\n")
	b.WriteString("- Base the note on the patient's recent history and today's session keywords.\n")
	b.WriteString("- Keep a clinical, objective and direct tone.\n")
	b.WriteString("- Structure the note clearly.\n\n")

	b.WriteString("RECENT PATIENT HISTORY:\n")
	if len(history) == 0 {
		b.WriteString("No previous history provided.\n")
	}
	for _, n := range history {
		fmt.Fprintf(&b, "On %s: %s\n", n.Date.Format("2006-01-02"), n.Content)
	}

	b.WriteString("\n---\n\nTODAY'S SESSION KEYWORDS:\n")
	fmt.Fprintf(&b, "%q\n", keywords)
	b.WriteString("\n---\n\nBased on the information above, generate the evolution note for today's session.\n")
	return b.String()
}
