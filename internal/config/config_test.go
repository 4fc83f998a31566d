package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "attsync.toml")
	content := `
[asana]
sprint_project = "42"

[asana.sections]
design = "d-1"

[github]
tester_login = "qa-bot"

[sync]
mirror_description = true
policy_source = "local"

[retry]
max_retries = 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "42", cfg.Asana.SprintProject)
	assert.Equal(t, "d-1", cfg.Asana.Sections.Design)
	assert.Equal(t, "1200175269622840", cfg.Asana.Sections.InProgress)
	assert.Equal(t, "qa-bot", cfg.GitHub.TesterLogin)
	assert.True(t, cfg.Sync.MirrorDescription)
	assert.True(t, cfg.Sync.AssignTesterTasksToCreator)
	assert.Equal(t, PolicySourceLocal, cfg.Sync.PolicySource)
	assert.Equal(t, 2, cfg.Retry.MaxRetries)
	assert.Equal(t, 2, cfg.Retry.BaseDelaySeconds)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"bad toml":       `[asana`,
		"policy source":  "[sync]\npolicy_source = \"s3\"\n",
		"empty sprint":   "[asana]\nsprint_project = \"\"\n",
		"negative retry": "[retry]\nmax_retries = -1\n",
		"zero delay":     "[retry]\nbase_delay_seconds = 0\n",
		"status field":   "[asana.fields]\nstatus = \"\"\n",
		"status option":  "[asana.status_values]\nrejected = \"\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "attsync.toml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "attsync.toml")
	cfg := DefaultConfig()
	cfg.Asana.Sections.Design = "d-9"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestRoleMaps(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	assert.Equal(t, "1200175269622816", cfg.Asana.Sections.ByRole()[models.RoleToTest])
	assert.Equal(t, "1200114505696486", cfg.Asana.Fields.ByRole()[models.FieldStatus])
	assert.Equal(t, "1200114505696491", cfg.Asana.StatusValues.ByStatus()[models.StatusMerged])
	assert.Len(t, cfg.Asana.Sections.ByRole(), len(models.AllSectionRoles))
}

func TestLoadInputs(t *testing.T) {
	t.Setenv("INPUT_ACTION", "synchronize")
	t.Setenv("INPUT_TRIGGER-PHRASE", "ticket")
	t.Setenv("INPUT_AMPLIFY-URI", "https://pr-%.example.com")
	t.Setenv("INPUT_ASANA-PAT", "secret")
	t.Setenv("GITHUB_REPOSITORY", "mobsuccess-devops/web")

	in, err := LoadInputs()
	require.NoError(t, err)

	assert.Equal(t, ActionSynchronize, in.Action)
	assert.Equal(t, "ticket", in.TriggerPhrase)
	assert.Equal(t, "https://pr-%.example.com", in.AmplifyURI)
	assert.Empty(t, in.StorybookAmplifyURI)
	assert.Equal(t, "secret", in.AsanaPAT)
	assert.Equal(t, "mobsuccess-devops/web", in.Repository)
}
