package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaspark/linguaspark-backend/internal/platform/llm/llmtest"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

func names(tasks []SectionTask) []SectionName {
	out := make([]SectionName, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Name)
	}
	return out
}

func TestDefaultTasksOrder(t *testing.T) {
	tasks, err := DefaultTasks()
	require.NoError(t, err)
	order, err := OrderTasks(tasks)
	require.NoError(t, err)
	assert.Equal(t, []SectionName{
		SectionWarmup, SectionVocabulary, SectionReading, SectionComprehension, SectionDiscussion,
		SectionGrammar, SectionPronunciation, SectionDialoguePractice, SectionDialogueFillGap, SectionWrapup,
	}, names(order))

	for _, task := range order {
		assert.Positive(t, task.MinItems, task.Name)
		assert.Positive(t, task.MaxTokens, task.Name)
	}
}

func TestOrderTasksRespectsDependenciesOverPriority(t *testing.T) {
	order, err := OrderTasks([]SectionTask{
		{Name: "a", Priority: 1, DependsOn: []SectionName{"c"}},
		{Name: "b", Priority: 2},
		{Name: "c", Priority: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []SectionName{"b", "c", "a"}, names(order))
}

func TestOrderTasksTiesKeepDeclarationOrder(t *testing.T) {
	order, err := OrderTasks([]SectionTask{
		{Name: "x", Priority: 1},
		{Name: "y", Priority: 1},
		{Name: "z", Priority: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, []SectionName{"z", "x", "y"}, names(order))
}

func TestOrderTasksRejectsBadGraphs(t *testing.T) {
	cases := map[string]struct {
		tasks []SectionTask
		want  string
	}{
		"cycle": {
			tasks: []SectionTask{
				{Name: "a", DependsOn: []SectionName{"b"}},
				{Name: "b", DependsOn: []SectionName{"c"}},
				{Name: "c", DependsOn: []SectionName{"a"}},
			},
			want: "cycle detected",
		},
		"self": {
			tasks: []SectionTask{{Name: "a", DependsOn: []SectionName{"a"}}},
			want:  "depends on itself",
		},
		"unknown": {
			tasks: []SectionTask{{Name: "a", DependsOn: []SectionName{"ghost"}}},
			want:  "unknown section",
		},
		"duplicate": {
			tasks: []SectionTask{{Name: "a"}, {Name: "a"}},
			want:  "duplicate section",
		},
		"unnamed": {
			tasks: []SectionTask{{Name: " "}},
			want:  "missing name",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := OrderTasks(tc.tasks)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseTasks(t *testing.T) {
	tasks, err := ParseTasks([]byte(`
sections:
  - name: reading
    priority: 1
    min_items: 80
  - name: comprehension
    priority: 2
    depends_on: [reading]
`))
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, []SectionName{SectionReading}, tasks[1].DependsOn)
	assert.Equal(t, 80, tasks[0].MinItems)

	_, err = ParseTasks([]byte(`sections: []`))
	assert.Error(t, err)
	_, err = ParseTasks([]byte(`sections: [`))
	assert.Error(t, err)
}

func TestNewOrchestratorRejectsBadCatalog(t *testing.T) {
	tasks, err := DefaultTasks()
	require.NoError(t, err)

	_, err = NewOrchestrator(llmtest.New(), logger.Nop(), WithTasks(tasks[:len(tasks)-1]))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	cyclic := append([]SectionTask(nil), tasks...)
	cyclic[1].DependsOn = []SectionName{SectionWrapup}
	_, err = NewOrchestrator(llmtest.New(), logger.Nop(), WithTasks(cyclic))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected")

	extra := append(append([]SectionTask(nil), tasks...), SectionTask{Name: "karaoke", Priority: 200})
	_, err = NewOrchestrator(llmtest.New(), logger.Nop(), WithTasks(extra))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no generator")
}
