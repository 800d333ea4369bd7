package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers prompts for the recurring coaching sessions.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("daily_routine").
		Description("Walk through today's hair care tasks and keep the streak going.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Daily Routine", `Help me get through today's hair care routine.

1. Read strand://routine/today to see what is scheduled.
2. Read strand://stats/streak for my current streak.

For each open task explain briefly how to do it well. When I tell you a
task is finished, mark it with routine.toggle. If nothing is scheduled
today, settle the day with routine.settle so it still counts.`), nil
		})

	srv.Prompt("weekly_checkin").
		Description("Collect the weekly check-in and adjust the plan to it.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Weekly Check-in", `Run my weekly hair check-in.

1. Read strand://plan/current and summarise what I did this week.
2. Ask me whether my hair feels Better, Same or Worse, and why.
3. Submit the answer with feedback.submit, putting my explanation in notes.
4. Once submitted, fetch plan.current and point out what changed.`), nil
		})

	return nil
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role:    string(mcp.RoleUser),
				Content: mcp.TextContent{Type: "text", Text: text},
			},
		},
	}
}
