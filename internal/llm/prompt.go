// ABOUTME: PromptBuilder renders the system and user prompts for chunk correction
// ABOUTME: Optionally embeds a proper-noun glossary into the system prompt
package llm

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert transcript editor. You receive raw speech-to-text output and return a cleaned version of it.

Apply these rules:
1. Fix punctuation, capitalisation, and sentence boundaries.
2. Correct obvious speech-to-text mistakes using the surrounding context.
3. Use British English spellings (colour, realise, behaviour, fuelled).
4. Correct misheard names and proper nouns when the intended word is clear.
5. Preserve the speaker's natural voice. Keep filler words such as "um", "uh", "you know", and "like".
6. Insert a paragraph break where the topic shifts.
7. Never summarise, paraphrase, reorder, or drop content. Every point made in the input must survive in the output.

Return only the cleaned transcript text, with no preamble and no commentary.`

const glossaryHeader = `

Proper nouns and terms that appear in this transcript, with their correct spellings:
`

const userTemplate = `Clean this transcript text:

%s`

const userWithContextTemplate = `Here is the tail of the transcript cleaned so far. Use it to keep names, spellings, and style consistent. The text you are given begins with a raw version of the words that end this context; clean that overlapping part so it reads exactly as it does in the context.

---PREVIOUS CONTEXT---
%s
---END CONTEXT---

Clean this transcript text, including the part that overlaps the context:

%s`

// PromptBuilder renders correction prompts. A glossary, when present, is
// appended to the system prompt so the model spells domain names the way
// the transcript owner wants them.
type PromptBuilder struct {
	glossary string
}

// NewPromptBuilder creates a PromptBuilder. glossary may be empty.
func NewPromptBuilder(glossary string) *PromptBuilder {
	return &PromptBuilder{glossary: strings.TrimSpace(glossary)}
}

// System returns the system prompt, with the glossary folded in when set
func (p *PromptBuilder) System() string {
	if p.glossary == "" {
		return systemPrompt
	}
	return systemPrompt + glossaryHeader + p.glossary
}

// User returns the user prompt for one chunk. priorContext may be empty,
// which happens for the first chunk of a transcript.
func (p *PromptBuilder) User(text, priorContext string) string {
	if priorContext == "" {
		return fmt.Sprintf(userTemplate, text)
	}
	return fmt.Sprintf(userWithContextTemplate, priorContext, text)
}
