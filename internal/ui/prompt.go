package ui

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

// Confirmer answers yes/no questions that gate side-effecting actions.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// PromptConfirmer asks the user on the terminal. Only "y" and "yes" (any
// case) confirm; anything else, including an empty answer, declines.
type PromptConfirmer struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// Confirm prompts the user for yes/no confirmation.
func (c PromptConfirmer) Confirm(prompt string) (bool, error) {
	p := promptui.Prompt{
		Label:  prompt + " [y/N]",
		Stdin:  c.Stdin,
		Stdout: c.Stdout,
	}

	result, err := p.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}

	return IsYes(result), nil
}

// FixedConfirmer always gives the same answer without prompting.
type FixedConfirmer bool

// Confirm returns the fixed answer.
func (c FixedConfirmer) Confirm(string) (bool, error) {
	return bool(c), nil
}

// RecordingConfirmer answers from a queue and remembers every prompt it saw.
// Once the queue is empty it declines.
type RecordingConfirmer struct {
	Answers []bool
	Prompts []string
}

// Confirm records prompt and pops the next answer.
func (c *RecordingConfirmer) Confirm(prompt string) (bool, error) {
	c.Prompts = append(c.Prompts, prompt)
	if len(c.Answers) == 0 {
		return false, nil
	}
	answer := c.Answers[0]
	c.Answers = c.Answers[1:]
	return answer, nil
}

// IsYes reports whether answer is an affirmative reply.
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
