package generation

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type SectionName string

const (
	SectionWarmup           SectionName = "warmup"
	SectionVocabulary       SectionName = "vocabulary"
	SectionReading          SectionName = "reading"
	SectionComprehension    SectionName = "comprehension"
	SectionDiscussion       SectionName = "discussion"
	SectionGrammar          SectionName = "grammar"
	SectionPronunciation    SectionName = "pronunciation"
	SectionDialoguePractice SectionName = "dialoguePractice"
	SectionDialogueFillGap  SectionName = "dialogueFillGap"
	SectionWrapup           SectionName = "wrapup"
)

// SectionTask declares one section, its ordering and generation knobs.
type SectionTask struct {
	Name        SectionName   `yaml:"name"`
	Priority    int           `yaml:"priority"`
	DependsOn   []SectionName `yaml:"depends_on"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	MinItems    int           `yaml:"min_items"`
}

//go:embed sections.yaml
var defaultCatalog []byte

type catalog struct {
	Sections []SectionTask `yaml:"sections"`
}

// DefaultTasks parses the embedded section catalog.
func DefaultTasks() ([]SectionTask, error) {
	return ParseTasks(defaultCatalog)
}

func ParseTasks(raw []byte) ([]SectionTask, error) {
	var c catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse section catalog: %w", err)
	}
	if len(c.Sections) == 0 {
		return nil, fmt.Errorf("section catalog is empty")
	}
	return c.Sections, nil
}

// OrderTasks validates the task graph and returns a topological order.
// Among ready tasks the lowest priority goes first; equal priorities keep
// declaration order.
func OrderTasks(tasks []SectionTask) ([]SectionTask, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	seen := map[SectionName]bool{}
	for _, t := range tasks {
		name := SectionName(strings.TrimSpace(string(t.Name)))
		if name == "" {
			return nil, fmt.Errorf("section task missing name")
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate section %q", name)
		}
		seen[name] = true
	}
	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			if dep == t.Name {
				return nil, fmt.Errorf("section %q depends on itself", t.Name)
			}
			if !seen[dep] {
				return nil, fmt.Errorf("section %q depends on unknown section %q", t.Name, dep)
			}
		}
	}

	byPriority := make([]SectionTask, len(tasks))
	copy(byPriority, tasks)
	sort.SliceStable(byPriority, func(i, j int) bool { return byPriority[i].Priority < byPriority[j].Priority })

	// Kahn topological sort, stable by priority order.
	deg := map[SectionName]int{}
	out := map[SectionName][]SectionName{}
	for _, t := range byPriority {
		for _, dep := range t.DependsOn {
			deg[t.Name]++
			out[dep] = append(out[dep], t.Name)
		}
	}

	order := make([]SectionTask, 0, len(tasks))
	added := map[SectionName]bool{}
	for len(order) < len(byPriority) {
		progressed := false
		for _, t := range byPriority {
			if added[t.Name] || deg[t.Name] != 0 {
				continue
			}
			added[t.Name] = true
			order = append(order, t)
			for _, n := range out[t.Name] {
				deg[n]--
			}
			progressed = true
			// restart so a newly freed low-priority task can jump ahead
			break
		}
		if !progressed {
			return nil, fmt.Errorf("cycle detected in section graph")
		}
	}
	return order, nil
}
