// Package tool exposes the reservation engine and booking session tracker
// as schema-described function tools for the concierge agents. The agents
// never touch storage directly; every structured call lands here first.
package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"

	contractx "github.com/smartshelf/concierge/agent/contract"
	"github.com/smartshelf/concierge/shelf/inventory"
	"github.com/smartshelf/concierge/shelf/reservation"
	"github.com/smartshelf/concierge/shelf/session"
)

const (
	ToolSetSize            = "set_size"
	ToolSetApartment       = "set_apartment"
	ToolFindAvailableSpots = "find_available_spots"
	ToolReserveSpot        = "reserve_spot"
	ToolFindPackages       = "find_packages"
	ToolReleasePackages    = "release_packages"
	ToolGetState           = "get_state"
	ToolDeleteSession      = "delete_session"
)

// Catalog binds tool names to engine and tracker operations and renders the
// per-agent tool declarations.
type Catalog struct {
	engine  *reservation.Engine
	tracker *session.Tracker
}

func NewCatalog(engine *reservation.Engine, tracker *session.Tracker) (*Catalog, error) {
	if engine == nil {
		return nil, errors.New("reservation engine is required")
	}
	if tracker == nil {
		return nil, errors.New("session tracker is required")
	}
	return &Catalog{engine: engine, tracker: tracker}, nil
}

// InfosFor returns the tool declarations an agent may call. The subsets
// mirror the two workflows: the storage agent cannot release packages, the
// retrieval agent cannot reserve spots.
func (c *Catalog) InfosFor(agentType contractx.AgentType) []openai.ChatCompletionToolParam {
	switch agentType {
	case contractx.AgentTypeStorage:
		return []openai.ChatCompletionToolParam{
			toolDeclaration(ToolDeleteSession, "Clear the desk booking session. Call before starting and after finishing a flow.", nil, nil),
			toolDeclaration(ToolSetSize, "Record the package size for the current booking.", map[string]any{
				"size": map[string]any{"type": "string", "enum": []string{"S", "M", "L"}, "description": "Package size category"},
			}, []string{"size"}),
			toolDeclaration(ToolSetApartment, "Record the apartment number for the current booking.", map[string]any{
				"apartment": map[string]any{"type": "string", "description": "Apartment or unit number"},
			}, []string{"apartment"}),
			toolDeclaration(ToolFindAvailableSpots, "List free storage spots of exactly the given size.", map[string]any{
				"size": map[string]any{"type": "string", "enum": []string{"S", "M", "L"}, "description": "Package size category"},
			}, []string{"size"}),
			toolDeclaration(ToolReserveSpot, "Reserve one specific free spot for an apartment.", map[string]any{
				"spot_id":   map[string]any{"type": "string", "description": "Spot to reserve, e.g. A1"},
				"apartment": map[string]any{"type": "string", "description": "Apartment or unit number"},
			}, []string{"spot_id", "apartment"}),
			toolDeclaration(ToolGetState, "Read what the booking session has gathered so far.", nil, nil),
		}
	case contractx.AgentTypeRetrieval:
		return []openai.ChatCompletionToolParam{
			toolDeclaration(ToolDeleteSession, "Clear the desk booking session. Call before starting and after finishing a flow.", nil, nil),
			toolDeclaration(ToolSetApartment, "Record the apartment number for the current pickup.", map[string]any{
				"apartment": map[string]any{"type": "string", "description": "Apartment or unit number"},
			}, []string{"apartment"}),
			toolDeclaration(ToolFindPackages, "List every package stored for an apartment.", map[string]any{
				"apartment": map[string]any{"type": "string", "description": "Apartment or unit number"},
			}, []string{"apartment"}),
			toolDeclaration(ToolReleasePackages, "Release every package stored for an apartment.", map[string]any{
				"apartment": map[string]any{"type": "string", "description": "Apartment or unit number"},
			}, []string{"apartment"}),
			toolDeclaration(ToolGetState, "Read what the booking session has gathered so far.", nil, nil),
		}
	default:
		return nil
	}
}

// Execute dispatches one structured tool call. Expected domain failures
// (occupied spot, unknown size, nothing stored) come back as ToolResult.Error
// text for the agent to phrase; a non-nil error means infrastructure broke.
func (c *Catalog) Execute(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	res := contractx.ToolResult{Tool: req.Tool}

	switch req.Tool {
	case ToolSetSize:
		st, err := c.tracker.SetSize(ctx, stringArg(req.Args, "size"))
		if err != nil {
			return domainFailure(res, err, inventory.ErrInvalidSize)
		}
		res.Result = st

	case ToolSetApartment:
		st, err := c.tracker.SetApartment(ctx, stringArg(req.Args, "apartment"))
		if err != nil {
			return res, err
		}
		res.Result = st

	case ToolFindAvailableSpots:
		spots, err := c.engine.FindAvailableSpots(ctx, stringArg(req.Args, "size"))
		if err != nil {
			return domainFailure(res, err, inventory.ErrInvalidSize)
		}
		st, err := c.recordCandidate(ctx, spots)
		if err != nil {
			return res, err
		}
		res.Result = map[string]any{
			"spots": spots,
			"count": len(spots),
			"state": st,
		}

	case ToolReserveSpot:
		record, err := c.engine.ReserveSpot(ctx, stringArg(req.Args, "spot_id"), stringArg(req.Args, "apartment"))
		if err != nil {
			return domainFailure(res, err, inventory.ErrNotFound, inventory.ErrAlreadyOccupied)
		}
		res.Result = record

	case ToolFindPackages:
		spots, err := c.engine.FindPackages(ctx, stringArg(req.Args, "apartment"))
		if err != nil {
			return res, err
		}
		res.Result = map[string]any{
			"packages": spots,
			"count":    len(spots),
		}

	case ToolReleasePackages:
		released, err := c.engine.ReleasePackages(ctx, stringArg(req.Args, "apartment"))
		if err != nil {
			return domainFailure(res, err, reservation.ErrNothingToRelease)
		}
		res.Result = map[string]any{
			"released": released,
			"count":    len(released),
		}

	case ToolGetState:
		st, err := c.tracker.State(ctx)
		if err != nil {
			return res, err
		}
		res.Result = st

	case ToolDeleteSession:
		if err := c.tracker.Delete(ctx); err != nil {
			return res, err
		}
		res.Result = "session cleared"

	default:
		return res, fmt.Errorf("%w: %s", contractx.ErrUnknownTool, req.Tool)
	}

	return res, nil
}

// recordCandidate mirrors the availability outcome into the session so the
// confirmation turn knows which spot is on the table.
func (c *Catalog) recordCandidate(ctx context.Context, spots []inventory.Spot) (session.State, error) {
	if len(spots) == 0 {
		return c.tracker.MarkNoSpot(ctx)
	}
	return c.tracker.SetSpot(ctx, spots[0].SpotID, spots[0].Location)
}

// domainFailure converts expected sentinels into conversational error text
// and lets anything else propagate as a real error.
func domainFailure(res contractx.ToolResult, err error, expected ...error) (contractx.ToolResult, error) {
	for _, sentinel := range expected {
		if errors.Is(err, sentinel) {
			res.Error = err.Error()
			return res, nil
		}
	}
	return res, err
}

func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	val, _ := args[key].(string)
	return val
}

func toolDeclaration(name, description string, properties map[string]any, required []string) openai.ChatCompletionToolParam {
	if properties == nil {
		properties = map[string]any{}
	}
	params := openai.FunctionParameters{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		params["required"] = required
	}
	return openai.ChatCompletionToolParam{
		Type: "function",
		Function: openai.FunctionDefinitionParam{
			Name:        name,
			Description: openai.String(description),
			Parameters:  params,
		},
	}
}
