// Package router classifies each operator message and hands it to the
// storage or retrieval specialist. It never answers questions itself; an
// unclassifiable message gets a fixed clarification reply.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	contractx "github.com/smartshelf/concierge/agent/contract"
)

const clarificationReply = "I can help with storing a package or picking one up. " +
	"Which would you like to do?"

type Router struct {
	client      *openai.Client
	instruction string
	model       string
	storage     contractx.Specialist
	retrieval   contractx.Specialist
	log         zerolog.Logger

	// lastAgent keeps follow-up turns (a bare "yes" or "no") inside the
	// flow that asked the question when classification is ambiguous.
	lastAgent contractx.AgentType
}

type Config struct {
	Instruction string
	Model       string
}

func New(client *openai.Client, storage, retrieval contractx.Specialist, cfg Config) (*Router, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	if storage == nil || retrieval == nil {
		return nil, errors.New("both specialists are required")
	}
	if strings.TrimSpace(cfg.Instruction) == "" {
		return nil, contractx.ErrPromptMissing
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("model name is required")
	}

	return &Router{
		client:      client,
		instruction: cfg.Instruction,
		model:       cfg.Model,
		storage:     storage,
		retrieval:   retrieval,
		log:         log.With().Str("component", "router").Logger(),
	}, nil
}

// Dispatch routes one operator message to a specialist and returns its
// reply.
func (r *Router) Dispatch(ctx context.Context, userMessage string) (string, error) {
	agentType, err := r.classify(ctx, userMessage)
	if err != nil {
		return "", err
	}

	switch agentType {
	case contractx.AgentTypeStorage:
		r.lastAgent = agentType
		return r.storage.Handle(ctx, userMessage)
	case contractx.AgentTypeRetrieval:
		r.lastAgent = agentType
		return r.retrieval.Handle(ctx, userMessage)
	default:
		r.log.Debug().Str("message", userMessage).Msg("message not routable")
		return clarificationReply, nil
	}
}

func (r *Router) classify(ctx context.Context, userMessage string) (contractx.AgentType, error) {
	completion, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(r.instruction),
			openai.UserMessage(userMessage),
		},
		Model:       r.model,
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", contractx.ErrModelInvoke)
	}

	label := strings.ToLower(strings.TrimSpace(completion.Choices[0].Message.Content))
	switch {
	case strings.Contains(label, "storage"):
		return contractx.AgentTypeStorage, nil
	case strings.Contains(label, "retrieval"):
		return contractx.AgentTypeRetrieval, nil
	}

	// A confirmation word belongs to whichever flow asked last.
	if r.lastAgent != "" && isConfirmation(userMessage) {
		return r.lastAgent, nil
	}
	return "", nil
}

func isConfirmation(message string) bool {
	switch strings.ToLower(strings.TrimSpace(message)) {
	case "yes", "y", "no", "n":
		return true
	}
	return false
}
