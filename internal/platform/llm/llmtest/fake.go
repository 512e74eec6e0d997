// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"github.com/linguaspark/linguaspark-backend/internal/platform/llm"
)

// Reply is one scripted answer: either Text or Err.
type Reply struct {
	Text string
	Err  error
}

// Fake answers prompts by matching a marker substring in the prompt. Each
// marker owns a queue of replies; the last reply repeats once the queue is
// drained. Prompts matching no marker get Default.
type Fake struct {
	mu      sync.Mutex
	routes  []route
	Default Reply
	Calls   []string
}

type route struct {
	marker  string
	replies []Reply
}

func New() *Fake { return &Fake{} }

// On registers replies for prompts containing marker. Earlier registrations
// win when several markers match.
func (f *Fake) On(marker string, replies ...Reply) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes = append(f.routes, route{marker: marker, replies: replies})
	return f
}

func (f *Fake) Provider() string { return "fake" }

func (f *Fake) Prompt(ctx context.Context, prompt string, _ llm.Options) (llm.Completion, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, prompt)
	reply := f.Default
	for i := range f.routes {
		r := &f.routes[i]
		if !strings.Contains(prompt, r.marker) || len(r.replies) == 0 {
			continue
		}
		reply = r.replies[0]
		if len(r.replies) > 1 {
			r.replies = r.replies[1:]
		}
		break
	}
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return llm.Completion{}, err
	}
	if reply.Err != nil {
		return llm.Completion{}, reply.Err
	}
	return llm.Completion{Text: reply.Text, TokensUsed: len(strings.Fields(reply.Text)), Model: "fake"}, nil
}

// CallsContaining counts prompts that contained marker.
func (f *Fake) CallsContaining(marker string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if strings.Contains(c, marker) {
			n++
		}
	}
	return n
}
