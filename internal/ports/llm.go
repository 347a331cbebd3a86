package ports

import "context"

type GenerateTextInput struct {
	System string
	Prompt string
}

// TextGenerator produces narrative text from a prompt. Adapters call an
// external chat-completion API; callers must tolerate failure and degrade
// to template text.
type TextGenerator interface {
	GenerateText(ctx context.Context, input GenerateTextInput) (string, error)
}
