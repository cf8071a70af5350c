package ui

import "errors"

const (
	promptCancelledMessageConstant = "prompt cancelled"
)

// ErrPromptCancelled indicates the user aborted a prompt.
var ErrPromptCancelled = errors.New(promptCancelledMessageConstant)
