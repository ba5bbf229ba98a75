// Package main provides tests for the robocop CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robocop-go/robocop/internal/cli"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestHelpCommand(t *testing.T) {
	output, err := runCLI(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	for _, expected := range []string{"check", "format", "rules"} {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain %q, got: %s", expected, output)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	output, err := runCLI(t, "--version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "robocop") {
		t.Errorf("version output should contain 'robocop', got: %s", output)
	}
}

func TestRulesCommand(t *testing.T) {
	output, err := runCLI(t, "rules")
	if err != nil {
		t.Errorf("rules command error = %v", err)
	}

	for _, expected := range []string{"DOC01", "missing-doc", "LEN01", "rule(s)"} {
		if !strings.Contains(output, expected) {
			t.Errorf("rules output should contain %q, got: %s", expected, output)
		}
	}
}

func TestRulesCommand_GroupFilter(t *testing.T) {
	output, err := runCLI(t, "rules", "--group", "documentation")
	if err != nil {
		t.Errorf("rules command error = %v", err)
	}
	if !strings.Contains(output, "DOC01") {
		t.Errorf("filtered output should contain DOC01, got: %s", output)
	}
	if strings.Contains(output, "LEN01") {
		t.Errorf("filtered output should not contain LEN01, got: %s", output)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	suite := filepath.Join(dir, "suite.robot")
	content := "*** Test Cases ***\nMy Test\n    Log    message\n"
	if err := os.WriteFile(suite, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write suite: %v", err)
	}

	output, err := runCLI(t, "check", "--no-cache", "--select", "DOC01", "--exit-zero", suite)
	if err != nil {
		t.Errorf("check command error = %v", err)
	}

	if !strings.Contains(output, "DOC01") {
		t.Errorf("check output should contain a DOC01 finding, got: %s", output)
	}
	if !strings.Contains(output, "1 issue(s) found") {
		t.Errorf("check output should contain the summary line, got: %s", output)
	}
}

func TestCheckCommand_FindingsFailTheRun(t *testing.T) {
	dir := t.TempDir()
	suite := filepath.Join(dir, "suite.robot")
	content := "*** Test Cases ***\nMy Test\n    Log    message\n"
	if err := os.WriteFile(suite, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write suite: %v", err)
	}

	_, err := runCLI(t, "check", "--no-cache", "--select", "DOC01", suite)
	if err == nil {
		t.Error("check with findings should exit non-zero without --exit-zero")
	}
}

func TestCheckCommand_ExitZeroFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	suite := filepath.Join(dir, "suite.robot")
	content := "*** Test Cases ***\nMy Test\n    Log    message\n"
	if err := os.WriteFile(suite, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write suite: %v", err)
	}
	cfg := filepath.Join(dir, "robocop.toml")
	cfgContent := "[lint]\nselect = [\"DOC01\"]\nexit_zero = true\n"
	if err := os.WriteFile(cfg, []byte(cfgContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	output, err := runCLI(t, "check", "--no-cache", "--config", cfg, suite)
	if err != nil {
		t.Errorf("exit_zero from the config file should make the run succeed, got: %v", err)
	}
	if !strings.Contains(output, "DOC01") {
		t.Errorf("findings should still be reported, got: %s", output)
	}
}

func TestFormatCommand(t *testing.T) {
	dir := t.TempDir()
	suite := filepath.Join(dir, "dirty.robot")
	if err := os.WriteFile(suite, []byte("My Test   \n"), 0o644); err != nil {
		t.Fatalf("failed to write suite: %v", err)
	}

	output, err := runCLI(t, "format", "--no-cache", suite)
	if err == nil {
		t.Error("format should exit non-zero when files need formatting")
	}
	if !strings.Contains(output, "would reformat") {
		t.Errorf("format output should contain 'would reformat', got: %s", output)
	}
}
