package contract

import "errors"

var (
	ErrModelInvoke   = errors.New("model invoke failed")
	ErrPromptMissing = errors.New("required prompt is missing")
	ErrUnknownTool   = errors.New("unknown tool")
)
