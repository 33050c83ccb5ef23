package cmd

// Record tools: decisions and file knowledge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/projmem/projmem/internal/util"
	"github.com/projmem/projmem/models"
	"github.com/projmem/projmem/store"
	"github.com/projmem/projmem/types"
)

func recordDecisionHandler(s *store.Store) mcp.ToolHandlerFor[types.RecordDecisionParams, types.DecisionResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.RecordDecisionParams]) (*mcp.CallToolResultFor[types.DecisionResponse], error) {
		args := params.Arguments
		logToolCall("record-decision", args)

		if strings.TrimSpace(args.Title) == "" {
			return nil, types.InvalidArgument("decision title is required")
		}

		p, err := activeProject(s, "")
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		d := models.Decision{
			ID:           util.NewID("dec"),
			ProjectID:    p.ID,
			Title:        strings.TrimSpace(args.Title),
			Description:  strings.TrimSpace(args.Description),
			Rationale:    strings.TrimSpace(args.Rationale),
			Alternatives: strings.TrimSpace(args.Alternatives),
			DecidedAt:    now,
			CreatedAt:    now,
		}
		if err := s.RecordDecision(&d); err != nil {
			logError(err)
			return nil, err
		}

		logInfo(fmt.Sprintf("Recorded decision %s", d.ID))
		return toolResult(
			fmt.Sprintf("Recorded decision '%s' with ID: %s", d.Title, d.ID),
			decisionToResponse(d),
		), nil
	}
}

func listDecisionsHandler(s *store.Store) mcp.ToolHandlerFor[types.ListDecisionsParams, types.DecisionListResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.ListDecisionsParams]) (*mcp.CallToolResultFor[types.DecisionListResponse], error) {
		logToolCall("list-decisions", params.Arguments)

		p, err := activeProject(s, "")
		if err != nil {
			return nil, err
		}

		decisions, err := s.ListDecisions(p.ID)
		if err != nil {
			logError(err)
			return nil, err
		}

		resp := types.DecisionListResponse{
			Decisions: make([]types.DecisionResponse, 0, len(decisions)),
			Count:     len(decisions),
		}
		for _, d := range decisions {
			resp.Decisions = append(resp.Decisions, decisionToResponse(d))
		}
		return toolResult(fmt.Sprintf("Found %d decisions", resp.Count), resp), nil
	}
}

func mapFileHandler(s *store.Store) mcp.ToolHandlerFor[types.MapFileParams, types.FileMappingResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.MapFileParams]) (*mcp.CallToolResultFor[types.FileMappingResponse], error) {
		args := params.Arguments
		logToolCall("map-file", args)

		if strings.TrimSpace(args.FilePath) == "" {
			return nil, types.InvalidArgument("filePath is required")
		}

		p, err := activeProject(s, "")
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		m := models.FileMapping{
			ID:        util.NewID("file"),
			ProjectID: p.ID,
			FilePath:  strings.TrimSpace(args.FilePath),
			Purpose:   strings.TrimSpace(args.Purpose),
			Component: strings.TrimSpace(args.Component),
			Notes:     args.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}
		stored, err := s.MapFile(&m)
		if err != nil {
			logError(err)
			return nil, err
		}

		return toolResult(
			fmt.Sprintf("Mapped %s (%s)", stored.FilePath, stored.ID),
			fileMappingToResponse(*stored),
		), nil
	}
}

func listFileMappingsHandler(s *store.Store) mcp.ToolHandlerFor[types.ListFileMappingsParams, types.FileMappingListResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.ListFileMappingsParams]) (*mcp.CallToolResultFor[types.FileMappingListResponse], error) {
		args := params.Arguments
		logToolCall("list-file-mappings", args)

		p, err := activeProject(s, "")
		if err != nil {
			return nil, err
		}

		mappings, err := s.ListFileMappings(p.ID, args.Component)
		if err != nil {
			logError(err)
			return nil, err
		}

		resp := types.FileMappingListResponse{
			Mappings: make([]types.FileMappingResponse, 0, len(mappings)),
			Count:    len(mappings),
		}
		for _, m := range mappings {
			resp.Mappings = append(resp.Mappings, fileMappingToResponse(m))
		}
		return toolResult(fmt.Sprintf("Found %d file mappings", resp.Count), resp), nil
	}
}
