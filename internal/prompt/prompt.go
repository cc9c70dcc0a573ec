package prompt

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/manifoldco/promptui"
)

// ErrNoInput is returned by non-interactive prompters when no queued answer
// is available. Stages translate it into an orchestrator suspension so the
// caller can supply the missing value and resume.
var ErrNoInput = errors.New("no input available")

// Validator checks a raw answer. Returning an error re-asks (interactive)
// or rejects the request (non-interactive).
type Validator func(string) error

// Prompter is the sole source of interactive input for stages. The
// terminal implementation blocks; the scripted one drains a queue and
// reports ErrNoInput when it runs dry.
type Prompter interface {
	// Ask poses a free-text question and returns a validated, non-empty answer.
	Ask(question string, validate Validator) (string, error)
	// Select asks the user to pick one of items and returns its index.
	Select(label string, items []string) (int, error)
	// Confirm asks a yes/no question.
	Confirm(question string) (bool, error)
}

// NotEmpty is the baseline validator applied by every prompter on Ask.
func NotEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("input cannot be empty")
	}
	return nil
}

// TerminalPrompter implements Prompter on a TTY via promptui.
type TerminalPrompter struct{}

// NewTerminalPrompter creates a terminal prompter.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

func (t *TerminalPrompter) Ask(question string, validate Validator) (string, error) {
	p := promptui.Prompt{
		Label: question,
		Validate: func(s string) error {
			if err := NotEmpty(s); err != nil {
				return err
			}
			if validate != nil {
				return validate(s)
			}
			return nil
		},
	}
	answer, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func (t *TerminalPrompter) Select(label string, items []string) (int, error) {
	s := promptui.Select{
		Label: label,
		Items: items,
	}
	idx, _, err := s.Run()
	if err != nil {
		return 0, err
	}
	return idx, nil
}

func (t *TerminalPrompter) Confirm(question string) (bool, error) {
	p := promptui.Prompt{
		Label:     question,
		IsConfirm: true,
	}
	_, err := p.Run()
	if err != nil {
		// promptui reports a declined confirm as an error.
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ScriptPrompter serves answers from a queue. The HTTP and websocket
// adapters push user-supplied values into it before resuming a session;
// tests preload it.
type ScriptPrompter struct {
	mu      sync.Mutex
	answers []string
}

// NewScriptPrompter creates a prompter preloaded with the given answers.
func NewScriptPrompter(answers ...string) *ScriptPrompter {
	return &ScriptPrompter{answers: answers}
}

// Push appends answers to the queue.
func (s *ScriptPrompter) Push(answers ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, answers...)
}

// Remaining reports how many queued answers are left.
func (s *ScriptPrompter) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

func (s *ScriptPrompter) pop() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.answers) == 0 {
		return "", false
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, true
}

func (s *ScriptPrompter) Ask(question string, validate Validator) (string, error) {
	answer, ok := s.pop()
	if !ok {
		return "", ErrNoInput
	}
	answer = strings.TrimSpace(answer)
	if err := NotEmpty(answer); err != nil {
		return "", err
	}
	if validate != nil {
		if err := validate(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (s *ScriptPrompter) Select(label string, items []string) (int, error) {
	answer, ok := s.pop()
	if !ok {
		return 0, ErrNoInput
	}
	answer = strings.TrimSpace(answer)

	for i, item := range items {
		if strings.EqualFold(item, answer) {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(items) {
		return n - 1, nil
	}
	return 0, errors.New("answer matches no option: " + answer)
}

func (s *ScriptPrompter) Confirm(question string) (bool, error) {
	answer, ok := s.pop()
	if !ok {
		return false, ErrNoInput
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "true":
		return true, nil
	default:
		return false, nil
	}
}
