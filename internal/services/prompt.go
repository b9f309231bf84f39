package services

import (
	"embed"
	"fmt"
	"os"
	"strings"
)

//go:embed instructions/*.md
var instructionFS embed.FS

// Persona selects the instruction manual a chat endpoint speaks with.
type Persona string

const (
	PersonaChat    Persona = "chat"
	PersonaMoodBot Persona = "moodbot"
)

// PromptAssembler prefixes user messages with a fixed instruction manual.
type PromptAssembler struct {
	persona     Persona
	instruction string
}

// NewPromptAssembler loads the embedded manual for persona. A non-empty
// overridePath replaces it with the contents of that file.
func NewPromptAssembler(persona Persona, overridePath string) (*PromptAssembler, error) {
	var (
		b   []byte
		err error
	)
	if overridePath != "" {
		b, err = os.ReadFile(overridePath)
	} else {
		b, err = instructionFS.ReadFile("instructions/" + string(persona) + ".md")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s instruction manual: %w", persona, err)
	}

	instruction := strings.TrimSpace(string(b))
	if instruction == "" {
		return nil, fmt.Errorf("%s instruction manual is empty", persona)
	}

	return &PromptAssembler{persona: persona, instruction: instruction}, nil
}

func (p *PromptAssembler) Persona() Persona {
	return p.persona
}

// Build composes the full prompt for one chat turn.
func (p *PromptAssembler) Build(message string) string {
	var b strings.Builder
	b.WriteString(p.instruction)
	b.WriteString("\n\nCurrent user prompt: \"")
	b.WriteString(message)
	b.WriteString("\"\n\nPlease analyze the above user prompt and respond according to the instruction manual.")
	return b.String()
}
