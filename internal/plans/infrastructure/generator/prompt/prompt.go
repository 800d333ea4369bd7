// Package prompt renders generator requests as model prompts.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/strand/internal/plans/application/ports"
	"github.com/felixgeelhaar/strand/internal/plans/domain"
)

// System is the system message for every request.
const System = "You are an expert hair coach. Answer with a single JSON object and nothing else."

const contract = `Return JSON ONLY with these keys:
- routine: array of {"day": weekday name, "action": short title, "details": instructions, "time": optional "HH:MM", "week": optional week number starting at 1}
- tips: array of strings
- recommendedProducts: array of strings
Each action must be unique within its day and week.`

// Build returns the user message for req.
func Build(req ports.Request) (string, error) {
	if req.Kind == domain.KindFeedback {
		return buildFeedback(req)
	}
	return buildInitial(req), nil
}

func buildInitial(req ports.Request) string {
	p := req.Profile
	var b strings.Builder
	b.WriteString("Create a fully personalized 4-week hair care plan.\n\n")
	fmt.Fprintf(&b, "Hair type: %s\n", orUnknown(p.HairType))
	fmt.Fprintf(&b, "Hair goals: %s\n", orUnknown(strings.Join(p.HairGoals, ", ")))
	fmt.Fprintf(&b, "Wash frequency: %s\n", orUnknown(p.CurrentRoutine.WashFrequency))
	fmt.Fprintf(&b, "Current routine products: %s\n", orUnknown(strings.Join(p.CurrentRoutine.Products, ", ")))
	fmt.Fprintf(&b, "Current products: %s\n\n", orUnknown(strings.Join(p.Products, ", ")))
	b.WriteString("Use week 1 to 4 on every routine item.\n")
	b.WriteString(contract)
	return b.String()
}

func buildFeedback(req ports.Request) (string, error) {
	if req.Previous == nil || req.Feedback == nil {
		return "", fmt.Errorf("feedback request needs the previous plan and the feedback")
	}
	profile, err := json.Marshal(req.Profile)
	if err != nil {
		return "", err
	}
	previous, err := json.Marshal(req.Previous)
	if err != nil {
		return "", err
	}
	feedback, err := json.Marshal(req.Feedback)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("The user has completed a 7-day hair routine.\n")
	b.WriteString("You MUST generate a NEW 7-day plan.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Do NOT reuse the same routine structure.\n")
	b.WriteString("- Adjust frequency, focus, or difficulty based on feedback.\n")
	b.WriteString("- If hair feels worse: simplify and increase moisture.\n")
	b.WriteString("- If better: progress slightly.\n")
	b.WriteString("- If same: change strategy.\n")
	fmt.Fprintf(&b, "- This week: %s\n\n", req.Feedback.HairFeel.Guidance())
	fmt.Fprintf(&b, "Hair profile:\n%s\n\n", profile)
	fmt.Fprintf(&b, "Previous plan (DO NOT COPY):\n%s\n\n", previous)
	fmt.Fprintf(&b, "Weekly feedback:\n%s\n\n", feedback)
	b.WriteString(contract)
	return b.String(), nil
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not specified"
	}
	return s
}
