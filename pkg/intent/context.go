package intent

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const contextFileName = "working_context.json"

// Rolling history caps. Entries beyond the cap are dropped oldest-first.
const (
	workingContextLimit = 10
	intentLimit         = 20
	toolUsageLimit      = 50

	// recentIntentCount is how many trailing intents contribute boosts
	recentIntentCount = 3
)

// WorkingEntry is one snippet of what the agent is actively working on
type WorkingEntry struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// IntentEntry is one recorded intent with the skills it implied
type IntentEntry struct {
	Description string    `json:"description"`
	Skills      []string  `json:"skills"`
	Timestamp   time.Time `json:"timestamp"`
}

// ToolEntry is one observed tool invocation
type ToolEntry struct {
	Tool      string    `json:"tool"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type contextFile struct {
	WorkingContext []WorkingEntry `json:"working_context"`
	Intents        []IntentEntry  `json:"intents"`
	ToolUsage      []ToolEntry    `json:"tool_usage"`
	LoadedSkills   []string       `json:"loaded_skills"`
}

// Context is the per-session rolling working-context history. It is not
// catalog data: it only feeds the boost map for the current call.
type Context struct {
	path string
	mu   sync.Mutex
}

// NewContext creates a rolling context rooted at the given session directory
func NewContext(sessionDir string) *Context {
	return &Context{path: filepath.Join(sessionDir, contextFileName)}
}

func (c *Context) load() *contextFile {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return &contextFile{}
	}

	var file contextFile
	if err := json.Unmarshal(data, &file); err != nil {
		return &contextFile{}
	}
	return &file
}

func (c *Context) save(file *contextFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode working context")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create session directory")
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write working context", goerr.V("path", c.path))
	}

	return nil
}

// AddWorkingContext appends a working-context snippet, keeping the 10 most
// recent entries
func (c *Context) AddWorkingContext(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	file := c.load()
	file.WorkingContext = append(file.WorkingContext, WorkingEntry{
		Text:      text,
		Timestamp: time.Now(),
	})
	if len(file.WorkingContext) > workingContextLimit {
		file.WorkingContext = file.WorkingContext[len(file.WorkingContext)-workingContextLimit:]
	}

	return c.save(file)
}

// AddIntent appends a recorded intent with its implied skills
func (c *Context) AddIntent(description string, skills []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	file := c.load()
	file.Intents = append(file.Intents, IntentEntry{
		Description: description,
		Skills:      skills,
		Timestamp:   time.Now(),
	})
	if len(file.Intents) > intentLimit {
		file.Intents = file.Intents[len(file.Intents)-intentLimit:]
	}

	return c.save(file)
}

// AddToolUsage appends an observed tool invocation
func (c *Context) AddToolUsage(tool, detail string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	file := c.load()
	file.ToolUsage = append(file.ToolUsage, ToolEntry{
		Tool:      tool,
		Detail:    detail,
		Timestamp: time.Now(),
	})
	if len(file.ToolUsage) > toolUsageLimit {
		file.ToolUsage = file.ToolUsage[len(file.ToolUsage)-toolUsageLimit:]
	}

	return c.save(file)
}

// UpdateLoadedSkills records which skills were auto-injected last
func (c *Context) UpdateLoadedSkills(skills []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	file := c.load()
	file.LoadedSkills = skills
	return c.save(file)
}

// WorkingContext returns the rolling working-context entries
func (c *Context) WorkingContext() []WorkingEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.load().WorkingContext
}

// RecentIntents returns the n most recent intents, newest last
func (c *Context) RecentIntents(n int) []IntentEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	intents := c.load().Intents
	if len(intents) > n {
		intents = intents[len(intents)-n:]
	}
	return intents
}

// Reset clears all rolling histories
func (c *Context) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.save(&contextFile{})
}
