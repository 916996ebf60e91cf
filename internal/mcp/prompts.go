package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("plan_board",
		mcp.WithPromptDescription("Lay out a whiteboard for a goal using stickies, frames and connectors"),
		mcp.WithArgument("goal",
			mcp.ArgumentDescription("What the board should help with"),
			mcp.RequiredArgument(),
		),
	), s.handlePlanBoardPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("run_retrospective",
		mcp.WithPromptDescription("Build a team retrospective board with action items"),
		mcp.WithArgument("team",
			mcp.ArgumentDescription("Team or project being reviewed"),
			mcp.RequiredArgument(),
		),
	), s.handleRetrospectivePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("tidy_board",
		mcp.WithPromptDescription("Clean up an existing board without deleting anything"),
	), s.handleTidyPrompt)
}

func (s *Server) handlePlanBoardPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	goal := req.Params.Arguments["goal"]
	return promptResult(fmt.Sprintf("Plan a board for: %s", goal), fmt.Sprintf(`Lay out a whiteboard that helps with: "%s".

1. Call getBoardState first so new objects do not land on top of existing ones.
2. Use execute_tool_calls to send the whole layout as one batch:
   - a createFrame per area, then createStickyNote calls for the ideas in each area
   - createConnector between related notes, using fromIndex/toIndex to refer to
     notes created earlier in the same batch
3. Keep each note short. Prefer color names (yellow, blue, green, pink) over hex.
4. Finish with a short summary of what you placed.`, goal)), nil
}

func (s *Server) handleRetrospectivePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	team := req.Params.Arguments["team"]
	return promptResult(fmt.Sprintf("Retrospective for %s", team), fmt.Sprintf(`Run a retrospective for %s.

1. Ask for what went well, what did not, and any action items if they were not given.
2. Call createRetrospective with a title of "%s Retrospective" and the three lists.
3. If there are more than five action items, follow up with arrangeInGrid on them.`, team, team)), nil
}

func (s *Server) handleTidyPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return promptResult("Tidy the active board", `Tidy the active board without removing content.

1. Call getBoardState and analyzeObjects to see what is there.
2. Group related stickies with arrangeInGrid, one batch per group.
3. Use fitFrameToContents on every frame whose children moved.
4. Do not call deleteObject. Deletions need explicit user approval.`), nil
}

func promptResult(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.TextContent{Type: "text", Text: text},
			},
		},
	}
}
