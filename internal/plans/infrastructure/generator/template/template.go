// Package template generates plans offline from an embedded knowledge base.
package template

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/strand/internal/plans/application/ports"
	"github.com/felixgeelhaar/strand/internal/plans/domain"
	routinesDomain "github.com/felixgeelhaar/strand/internal/routines/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/security"
)

//go:embed knowledge.yaml
var defaultKnowledge []byte

// Intervention is one routine step in the knowledge base.
type Intervention struct {
	ID      string `yaml:"id"`
	Day     string `yaml:"day"`
	Action  string `yaml:"action"`
	Details string `yaml:"details"`
	Time    string `yaml:"time"`
}

// Track is a focused set of interventions.
type Track struct {
	Week          int            `yaml:"week"`
	Focus         string         `yaml:"focus"`
	Interventions []Intervention `yaml:"interventions"`
}

// Hints are products and tips attached to a hair type or goal.
type Hints struct {
	Products []string `yaml:"products"`
	Tips     []string `yaml:"tips"`
}

// Knowledge is the decoded knowledge base.
type Knowledge struct {
	DefaultTime string           `yaml:"default_time"`
	Tips        []string         `yaml:"tips"`
	Weeks       []Track          `yaml:"weeks"`
	Feedback    map[string]Track `yaml:"feedback"`
	HairTypes   map[string]Hints `yaml:"hair_types"`
	Goals       map[string]Hints `yaml:"goals"`
}

// ParseKnowledge decodes and checks a knowledge base.
func ParseKnowledge(data []byte) (*Knowledge, error) {
	var k Knowledge
	if err := yaml.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("parse knowledge: %w", err)
	}
	if k.DefaultTime == "" {
		k.DefaultTime = "19:00"
	}
	if !routinesDomain.IsClockTime(k.DefaultTime) {
		return nil, fmt.Errorf("knowledge: default_time %q is not HH:MM", k.DefaultTime)
	}
	if len(k.Weeks) == 0 {
		return nil, fmt.Errorf("knowledge: no weeks defined")
	}
	for i, w := range k.Weeks {
		if w.Week < 1 {
			return nil, fmt.Errorf("knowledge: weeks[%d] has week %d", i, w.Week)
		}
		if err := k.checkTrack(fmt.Sprintf("weeks[%d]", i), w); err != nil {
			return nil, err
		}
	}
	for _, feel := range []domain.HairFeel{domain.HairFeelBetter, domain.HairFeelSame, domain.HairFeelWorse} {
		key := feedbackKey(feel)
		track, ok := k.Feedback[key]
		if !ok {
			return nil, fmt.Errorf("knowledge: missing feedback track %q", key)
		}
		if err := k.checkTrack("feedback."+key, track); err != nil {
			return nil, err
		}
	}
	return &k, nil
}

func (k *Knowledge) checkTrack(path string, t Track) error {
	if len(t.Interventions) == 0 {
		return fmt.Errorf("knowledge: %s has no interventions", path)
	}
	for j, iv := range t.Interventions {
		if err := k.task(iv, t.Week).Validate(); err != nil {
			return fmt.Errorf("knowledge: %s.interventions[%d] (%s): %w", path, j, iv.ID, err)
		}
	}
	return nil
}

func (k *Knowledge) task(iv Intervention, week int) domain.Task {
	at := iv.Time
	if at == "" {
		at = k.DefaultTime
	}
	return domain.Task{Day: iv.Day, Action: iv.Action, Details: iv.Details, Time: at, Week: week}
}

func feedbackKey(f domain.HairFeel) string {
	return strings.ToLower(string(f))
}

// Generator builds plans from a Knowledge base without network access.
type Generator struct {
	knowledge *Knowledge
}

// New returns a Generator over the embedded knowledge base, or the file at
// path when path is set.
func New(path string) (*Generator, error) {
	data := defaultKnowledge
	if path != "" {
		var err error
		if data, err = security.SafeReadFile(path); err != nil {
			return nil, fmt.Errorf("read knowledge: %w", err)
		}
	}
	k, err := ParseKnowledge(data)
	if err != nil {
		return nil, err
	}
	return &Generator{knowledge: k}, nil
}

// Name implements ports.Generator.
func (g *Generator) Name() string { return "template" }

// Generate implements ports.Generator.
func (g *Generator) Generate(ctx context.Context, req ports.Request) (*domain.Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := g.knowledge
	draft := &domain.Draft{}
	var focus []string

	if req.Kind == domain.KindFeedback {
		if req.Feedback == nil {
			return nil, fmt.Errorf("template: feedback request without feedback")
		}
		track := k.Feedback[feedbackKey(req.Feedback.HairFeel)]
		for _, iv := range track.Interventions {
			draft.Tasks = append(draft.Tasks, k.task(iv, 0))
		}
		focus = append(focus, track.Focus)
	} else {
		for _, w := range k.Weeks {
			for _, iv := range w.Interventions {
				draft.Tasks = append(draft.Tasks, k.task(iv, w.Week))
			}
			focus = append(focus, fmt.Sprintf("Week %d: %s", w.Week, w.Focus))
		}
	}

	draft.Tips = appendUnique(draft.Tips, focus...)
	draft.Tips = appendUnique(draft.Tips, k.Tips...)

	hints := []Hints{k.HairTypes[strings.ToLower(strings.TrimSpace(req.Profile.HairType))]}
	for _, goal := range req.Profile.HairGoals {
		hints = append(hints, k.Goals[strings.ToLower(strings.TrimSpace(goal))])
	}
	draft.RecommendedProducts = []string{}
	for _, h := range hints {
		draft.Tips = appendUnique(draft.Tips, h.Tips...)
		draft.RecommendedProducts = appendUnique(draft.RecommendedProducts, h.Products...)
	}
	return draft, nil
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if v == "" {
			continue
		}
		dup := false
		for _, have := range dst {
			if have == v {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}
