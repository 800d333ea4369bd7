package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	routinesDomain "github.com/felixgeelhaar/strand/internal/routines/domain"
)

// ErrEmptyResponse is returned when the generator produced no content.
var ErrEmptyResponse = errors.New("generator returned an empty response")

// Draft is a validated generator result that has not been stored yet.
type Draft struct {
	Tasks               []Task
	Tips                []string
	RecommendedProducts []string
}

// FieldError is one problem found in generator output.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError lists every problem found in a generator response.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Path+": "+p.Message)
	}
	return "invalid plan: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(path, format string, args ...any) {
	e.Problems = append(e.Problems, FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// rawDraft mirrors the JSON contract. Unknown top-level keys are rejected.
type rawDraft struct {
	Routine             []json.RawMessage `json:"routine"`
	Tips                json.RawMessage   `json:"tips"`
	RecommendedProducts json.RawMessage   `json:"recommendedProducts"`
}

type rawTask struct {
	Day     *string `json:"day"`
	Action  *string `json:"action"`
	Details *string `json:"details"`
	Time    *string `json:"time"`
	Week    *int    `json:"week"`
}

// StripFences removes markdown code fences around a JSON body.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ParseDraft decodes and validates generator output. Nothing about the
// response is trusted: every field is checked and all problems are reported
// together.
func ParseDraft(content string) (*Draft, error) {
	body := StripFences(content)
	if body == "" {
		return nil, ErrEmptyResponse
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()
	var raw rawDraft
	if err := dec.Decode(&raw); err != nil {
		verr := &ValidationError{}
		verr.add("$", "malformed JSON: %v", err)
		return nil, verr
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		verr := &ValidationError{}
		verr.add("$", "unexpected content after JSON object")
		return nil, verr
	}

	verr := &ValidationError{}
	draft := &Draft{
		Tips:                decodeStrings(verr, "tips", raw.Tips),
		RecommendedProducts: decodeStrings(verr, "recommendedProducts", raw.RecommendedProducts),
	}

	if len(raw.Routine) == 0 {
		verr.add("routine", "must be a non-empty array")
	}
	seen := make(map[string]int)
	for i, item := range raw.Routine {
		path := fmt.Sprintf("routine[%d]", i)
		task, ok := decodeTask(verr, path, item)
		if !ok {
			continue
		}
		key := taskKey(task)
		if first, dup := seen[key]; dup {
			verr.add(path, "duplicates routine[%d] (%s on %s)", first, task.Action, task.Day)
			continue
		}
		seen[key] = i
		draft.Tasks = append(draft.Tasks, task)
	}

	if len(verr.Problems) > 0 {
		return nil, verr
	}
	return draft, nil
}

func decodeTask(verr *ValidationError, path string, item json.RawMessage) (Task, bool) {
	var rt rawTask
	dec := json.NewDecoder(bytes.NewReader(item))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rt); err != nil {
		verr.add(path, "must be an object of {day, action, details, time?, week?}: %v", err)
		return Task{}, false
	}

	before := len(verr.Problems)
	var task Task
	switch {
	case rt.Day == nil:
		verr.add(path+".day", "is required")
	default:
		if _, err := routinesDomain.ParseWeekday(*rt.Day); err != nil {
			verr.add(path+".day", "unknown weekday %q", *rt.Day)
		}
		task.Day = strings.TrimSpace(*rt.Day)
	}
	if rt.Action == nil || strings.TrimSpace(*rt.Action) == "" {
		verr.add(path+".action", "is required")
	} else {
		task.Action = strings.TrimSpace(*rt.Action)
	}
	if rt.Details != nil {
		task.Details = strings.TrimSpace(*rt.Details)
	}
	if rt.Time != nil && *rt.Time != "" {
		if !routinesDomain.IsClockTime(*rt.Time) {
			verr.add(path+".time", "must be HH:MM, got %q", *rt.Time)
		}
		task.Time = *rt.Time
	}
	if rt.Week != nil {
		if *rt.Week < 1 {
			verr.add(path+".week", "must be at least 1")
		}
		task.Week = *rt.Week
	}
	return task, len(verr.Problems) == before
}

func decodeStrings(verr *ValidationError, path string, raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		verr.add(path, "must be an array of strings")
		return nil
	}
	cleaned := make([]string, 0, len(out))
	for _, s := range out {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return cleaned
}
