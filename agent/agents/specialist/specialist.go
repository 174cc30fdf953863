// Package specialist runs one task-focused agent (storage or retrieval)
// over chat completions with function calling, dispatching every tool call
// through the shared catalog.
package specialist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	contractx "github.com/smartshelf/concierge/agent/contract"
	toolx "github.com/smartshelf/concierge/agent/tool"
)

// maxToolRounds bounds how many model/tool round-trips one operator turn may
// take. The longest scripted flow (reset, set size, set apartment, find,
// answer) fits well inside this.
const maxToolRounds = 8

// Specialist is a single tool-calling agent bound to one workflow. Not safe
// for concurrent Handle calls; the desk REPL is single-threaded.
type Specialist struct {
	agentType   contractx.AgentType
	client      *openai.Client
	catalog     *toolx.Catalog
	instruction string
	model       string
	temperature float64

	history []openai.ChatCompletionMessageParamUnion
	log     zerolog.Logger
}

var _ contractx.Specialist = (*Specialist)(nil)

type Config struct {
	AgentType   contractx.AgentType
	Instruction string
	Model       string
	Temperature float64
}

func New(client *openai.Client, catalog *toolx.Catalog, cfg Config) (*Specialist, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	if catalog == nil {
		return nil, errors.New("tool catalog is required")
	}
	if strings.TrimSpace(cfg.Instruction) == "" {
		return nil, contractx.ErrPromptMissing
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("model name is required")
	}

	return &Specialist{
		agentType:   cfg.AgentType,
		client:      client,
		catalog:     catalog,
		instruction: cfg.Instruction,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		log:         log.With().Str("component", "specialist").Str("agent", string(cfg.AgentType)).Logger(),
	}, nil
}

// Handle runs one operator turn: the model is invoked with the running desk
// conversation, requested tool calls are executed against the catalog, and
// the loop repeats until the model answers in text.
func (s *Specialist) Handle(ctx context.Context, userMessage string) (string, error) {
	turnID := uuid.NewString()
	s.history = append(s.history, openai.UserMessage(userMessage))

	tools := s.catalog.InfosFor(s.agentType)

	for round := 0; round < maxToolRounds; round++ {
		messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(s.history)+1)
		messages = append(messages, openai.SystemMessage(s.instruction))
		messages = append(messages, s.history...)

		completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Messages:    messages,
			Model:       s.model,
			Temperature: openai.Float(s.temperature),
			Tools:       tools,
		})
		if err != nil {
			return "", fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
		}
		if len(completion.Choices) == 0 {
			return "", fmt.Errorf("%w: empty choices", contractx.ErrModelInvoke)
		}

		msg := completion.Choices[0].Message
		s.history = append(s.history, msg.ToParam())

		if len(msg.ToolCalls) == 0 {
			reply := strings.TrimSpace(msg.Content)
			s.log.Debug().Str("turn_id", turnID).Int("rounds", round+1).Msg("turn finished")
			return reply, nil
		}

		for _, call := range msg.ToolCalls {
			payload, err := s.dispatch(ctx, turnID, call)
			if err != nil {
				return "", err
			}
			s.history = append(s.history, openai.ToolMessage(payload, call.ID))
		}
	}

	return "", fmt.Errorf("%w: tool loop exceeded %d rounds", contractx.ErrModelInvoke, maxToolRounds)
}

// dispatch executes one requested tool call and serializes its result for
// the model.
func (s *Specialist) dispatch(ctx context.Context, turnID string, call openai.ChatCompletionMessageToolCall) (string, error) {
	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return "", fmt.Errorf("decode args for tool %s: %w", call.Function.Name, err)
		}
	}

	result, err := s.catalog.Execute(ctx, contractx.ToolRequest{
		Tool: call.Function.Name,
		Args: args,
	})
	if err != nil {
		if errors.Is(err, contractx.ErrUnknownTool) {
			// The model asked for something outside its catalog; tell it
			// instead of failing the turn.
			result = contractx.ToolResult{Tool: call.Function.Name, Error: err.Error()}
		} else {
			return "", err
		}
	}

	s.log.Info().
		Str("turn_id", turnID).
		Str("tool", result.Tool).
		Bool("tool_error", result.Error != "").
		Msg("tool executed")

	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode result for tool %s: %w", call.Function.Name, err)
	}
	return string(payload), nil
}
