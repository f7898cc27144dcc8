package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmsync/internal/cli"
	"tmsync/internal/config"
	"tmsync/internal/pipeline"
	"tmsync/internal/storage"
)

func newProject(t *testing.T) string {
	t.Helper()
	t.Setenv(config.EnvProcessors, "")
	t.Setenv(config.EnvToken, "")
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, config.DefaultSpecDir), 0755))
	return dir
}

func execute(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	root := &cobra.Command{Use: "tmsync", SilenceUsage: true, SilenceErrors: true}
	cfg := config.New()
	var flags cli.Flags
	NewCommands(cfg, "test").Register(root, &flags, cfg)
	root.SetArgs(args)
	return cfg, root.Execute()
}

func writeSpec(t *testing.T, project, name, content string) {
	t.Helper()
	path := filepath.Join(project, config.DefaultSpecDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestValidateCommand_Valid(t *testing.T) {
	project := newProject(t)
	writeSpec(t, project, "login.test", "#! abc-123\n\nopen\nshown\n")

	cfg, err := execute(t, "-C", project, "validate")
	require.NoError(t, err)

	report, err := storage.NewJSONStorage(cfg).LoadReport()
	require.NoError(t, err)
	assert.Equal(t, "validate", report.Meta.Command)
	assert.Equal(t, 1, report.Meta.TotalFiles)
	assert.Empty(t, report.Details)
}

func TestValidateCommand_Invalid(t *testing.T) {
	project := newProject(t)
	writeSpec(t, project, "login.test", "#! abc-123\n\nopen\n")

	cfg, err := execute(t, "-C", project, "validate")

	var verr *pipeline.ValidationError
	require.True(t, errors.As(err, &verr))

	report, err := storage.NewJSONStorage(cfg).LoadReport()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Meta.FailedFiles)
	require.Len(t, report.Details, 1)
	assert.Equal(t, 3, report.Details[0].Errors[0].Line)
}

func TestNewCommand(t *testing.T) {
	project := newProject(t)

	_, err := execute(t, "--project", project, "new", "checkout")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(project, config.DefaultSpecDir, "checkout.test"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "#! "))

	// Existing files are never overwritten
	_, err = execute(t, "--project", project, "new", "checkout")
	assert.Error(t, err)
}

func TestUploadCommand_RequiresToken(t *testing.T) {
	project := newProject(t)

	_, err := execute(t, "-C", project, "upload")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestCommands_MissingSpecRoot(t *testing.T) {
	project := t.TempDir()
	t.Setenv(config.EnvProcessors, "")

	_, err := execute(t, "-C", project, "validate")
	assert.Error(t, err)
}
