package config

import (
	"github.com/ilyakaznacheev/cleanenv"
)

// Actions
const (
	ActionDebug       = "debug"
	ActionSynchronize = "synchronize"
)

// Inputs are the per-run values GitHub Actions passes through the environment
type Inputs struct {
	Action              string `env:"INPUT_ACTION"`
	TriggerPhrase       string `env:"INPUT_TRIGGER-PHRASE"`
	AmplifyURI          string `env:"INPUT_AMPLIFY-URI"`
	StorybookAmplifyURI string `env:"INPUT_STORYBOOK-AMPLIFY-URI"`
	AsanaPAT            string `env:"INPUT_ASANA-PAT"`
	EventName           string `env:"GITHUB_EVENT_NAME"`
	EventPath           string `env:"GITHUB_EVENT_PATH"`
	Repository          string `env:"GITHUB_REPOSITORY"`
	Workspace           string `env:"GITHUB_WORKSPACE" env-default:"."`
}

// LoadInputs reads the action inputs from the environment
func LoadInputs() (*Inputs, error) {
	var in Inputs
	if err := cleanenv.ReadEnv(&in); err != nil {
		return nil, err
	}
	return &in, nil
}
