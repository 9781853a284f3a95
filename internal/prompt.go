package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

// Prompter asks the user questions on the terminal
type Prompter interface {
	// Interactive reports whether questions can be asked at all
	Interactive() bool
	// Confirm asks a yes/no question
	Confirm(message string, def bool) (bool, error)
	// PickDirectory asks for a directory that satisfies validate
	PickDirectory(message, help string, validate func(dir string) error) (string, error)
}

// SurveyPrompter implements Prompter with survey
type SurveyPrompter struct {
	// assumeNo disables prompting (--no-input)
	assumeNo bool
}

// NewPrompter creates a terminal prompter; noInput disables all questions
func NewPrompter(noInput bool) *SurveyPrompter {
	return &SurveyPrompter{assumeNo: noInput}
}

func (p *SurveyPrompter) Interactive() bool {
	if p.assumeNo {
		return false
	}
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func (p *SurveyPrompter) Confirm(message string, def bool) (bool, error) {
	answer := def
	prompt := &survey.Confirm{
		Message: message,
		Default: def,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, ErrDeclined
		}
		return false, fmt.Errorf("asking for confirmation: %w", err)
	}
	return answer, nil
}

func (p *SurveyPrompter) PickDirectory(message, help string, validate func(dir string) error) (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: message,
		Help:    help,
		Suggest: suggestDirectories,
	}

	validator := func(ans interface{}) error {
		s, ok := ans.(string)
		if !ok {
			return fmt.Errorf("expected a directory path")
		}
		dir := ExpandHome(strings.TrimSpace(s))
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		if validate != nil {
			return validate(dir)
		}
		return nil
	}

	if err := survey.AskOne(prompt, &answer, survey.WithValidator(validator)); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", ErrDeclined
		}
		return "", fmt.Errorf("asking for directory: %w", err)
	}

	dir, err := filepath.Abs(ExpandHome(strings.TrimSpace(answer)))
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	return dir, nil
}

// suggestDirectories completes a partially typed path to existing directories
func suggestDirectories(toComplete string) []string {
	matches, _ := filepath.Glob(ExpandHome(toComplete) + "*")
	var dirs []string
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil && info.IsDir() {
			dirs = append(dirs, match+string(filepath.Separator))
		}
	}
	return dirs
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
