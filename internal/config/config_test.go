package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/fieldmap"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	content := `{
		"profile": "me.json",
		"applications": "history.json",
		"concurrency": 8,
		"answers": {"salary": "$120,000", "languages": ["english", "german"]},
		"redis_url": "redis://localhost:6379/0"
	}`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "me.json", cfg.Profile)
	assert.Equal(t, "history.json", cfg.Applications)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, "$120,000", cfg.Answers.Salary)
	assert.Equal(t, []string{"english", "german"}, cfg.Answers.Languages)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte("{ invalid }"), 0644))

	_, err := LoadConfig(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty config", Config{}, ""},
		{"negative concurrency", Config{Concurrency: -1}, "'concurrency' must be non-negative"},
		{"missing template", Config{Template: "/nonexistent/autofill.js.tmpl"}, "template file not found"},
		{"same file twice", Config{Profile: "data.json", Applications: "data.json"}, "must be different files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		Profile: "custom.json",
		Answers: fieldmap.Answers{Salary: "$100,000"},
	}
	defaults := Config{
		Profile:      DefaultProfilePath,
		Applications: DefaultApplicationsPath,
		DatabaseURL:  "postgres://localhost/autoapply",
		Answers:      fieldmap.DefaultAnswers(),
	}

	result := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "custom.json", result.Profile, "config value wins")
	assert.Equal(t, DefaultApplicationsPath, result.Applications)
	assert.Equal(t, "postgres://localhost/autoapply", result.DatabaseURL)
	assert.Equal(t, DefaultConcurrency, result.Concurrency)
	assert.Equal(t, "$100,000", result.Answers.Salary)
	assert.Equal(t, "2 weeks", result.Answers.NoticePeriod)
	assert.Equal(t, []string{"english"}, result.Answers.Languages)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{Concurrency: 2}
	result := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, 2, result.Concurrency)
	assert.Empty(t, result.Profile)
	assert.Equal(t, fieldmap.Answers{}, result.Answers)
}
