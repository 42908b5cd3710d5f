// Package checklist provides the site setup checklist shown alongside
// the updates list. Task definitions are static and compiled in; only
// completion state lives on disk.
package checklist

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed tasks.yaml
var tasksYAML []byte

// Definition is a single checklist task as declared in tasks.yaml.
// Tour names the dashboard view that walks the user through the task;
// empty means the task has no guided tour.
type Definition struct {
	ID              string `yaml:"id"`
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	DurationMinutes int    `yaml:"duration_minutes"`
	Tour            string `yaml:"tour"`
	Optional        bool   `yaml:"optional"`
}

// Task is a definition merged with the stored completion state.
type Task struct {
	Definition
	Completed   bool
	CompletedAt time.Time
}

type taskFile struct {
	Tasks []Definition `yaml:"tasks"`
}

// ParseDefinitions decodes and validates a checklist definition payload.
func ParseDefinitions(data []byte) ([]Definition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("checklist: definition payload is empty")
	}
	var tf taskFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("checklist: decode definitions: %w", err)
	}
	seen := make(map[string]struct{}, len(tf.Tasks))
	for i, def := range tf.Tasks {
		if strings.TrimSpace(def.ID) == "" {
			return nil, fmt.Errorf("checklist: task %d has no id", i)
		}
		if strings.TrimSpace(def.Title) == "" {
			return nil, fmt.Errorf("checklist: task %q has no title", def.ID)
		}
		if _, dup := seen[def.ID]; dup {
			return nil, fmt.Errorf("checklist: duplicate task id %q", def.ID)
		}
		seen[def.ID] = struct{}{}
	}
	return tf.Tasks, nil
}

// Definitions returns the compiled-in task table.
func Definitions() ([]Definition, error) {
	return ParseDefinitions(tasksYAML)
}

// Merge pairs each definition with its completion timestamp. A zero
// timestamp (or a missing entry) means the task is still open.
// Definition order is preserved.
func Merge(defs []Definition, completedAt map[string]time.Time) []Task {
	tasks := make([]Task, 0, len(defs))
	for _, def := range defs {
		at := completedAt[def.ID]
		tasks = append(tasks, Task{
			Definition:  def,
			Completed:   !at.IsZero(),
			CompletedAt: at,
		})
	}
	return tasks
}

// Progress counts completed tasks against the total, ignoring optional
// tasks so the headline number reflects required setup only.
func Progress(tasks []Task) (done, total int) {
	for _, t := range tasks {
		if t.Optional {
			continue
		}
		total++
		if t.Completed {
			done++
		}
	}
	return done, total
}
