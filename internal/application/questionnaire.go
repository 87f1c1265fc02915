package application

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed questionnaire.yaml
var questionnaireYAML []byte

// SyncStep is one rung of the daily check-in ladder: a single-choice
// question with a fixed option set. Answers are pure telemetry; the
// ladder never touches the activity store.
type SyncStep struct {
	Name    string   `yaml:"name"`
	Prompt  string   `yaml:"prompt"`
	Options []string `yaml:"options"`
}

// Accepts reports whether payload is one of the step's options.
func (s SyncStep) Accepts(payload string) bool {
	for _, option := range s.Options {
		if option == payload {
			return true
		}
	}
	return false
}

func loadSyncSteps() ([]SyncStep, error) {
	var doc struct {
		Steps []SyncStep `yaml:"steps"`
	}
	if err := yaml.Unmarshal(questionnaireYAML, &doc); err != nil {
		return nil, fmt.Errorf("decode questionnaire: %w", err)
	}

	if len(doc.Steps) == 0 {
		return nil, fmt.Errorf("questionnaire has no steps")
	}
	for i, step := range doc.Steps {
		if strings.TrimSpace(step.Name) == "" {
			return nil, fmt.Errorf("questionnaire step %d has no name", i+1)
		}
		if strings.TrimSpace(step.Prompt) == "" {
			return nil, fmt.Errorf("questionnaire step %q has no prompt", step.Name)
		}
		if len(step.Options) == 0 {
			return nil, fmt.Errorf("questionnaire step %q has no options", step.Name)
		}
	}

	return doc.Steps, nil
}
