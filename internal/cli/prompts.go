package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/den-cli/den/internal/domain"
)

// Scheduling choices offered by the install prompt.
const (
	scheduleChoiceInterval = "1"
	scheduleChoiceCalendar = "2"
)

// ask returns the next answer. Closed input counts as cancellation.
func ask(p domain.Prompter, label string) (string, error) {
	answer, err := p.Ask(label)
	if errors.Is(err, io.EOF) {
		return "", domain.ErrPromptCancelled
	}
	return answer, err
}

// askValid re-prompts until check accepts the answer.
// check returns the message to show, or "" when the answer is valid.
func askValid(p domain.Prompter, w io.Writer, label string, check func(string) string) (string, error) {
	for {
		answer, err := ask(p, label)
		if err != nil {
			return "", err
		}
		if msg := check(answer); msg != "" {
			_, _ = fmt.Fprintf(w, "Error: %s\n", msg)
			continue
		}
		return answer, nil
	}
}

// askInt re-prompts until the answer is an integer accepted by validate.
func askInt(p domain.Prompter, w io.Writer, label string, validate func(int) (bool, string)) (int, error) {
	var value int
	_, err := askValid(p, w, label, func(answer string) string {
		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err != nil {
			return "Please enter a valid integer"
		}
		if ok, msg := validate(n); !ok {
			return msg
		}
		value = n
		return ""
	})
	return value, err
}

// askChoice re-prompts until the answer is a 1-based index into n items.
func askChoice(p domain.Prompter, w io.Writer, label string, n int) (int, error) {
	return askInt(p, w, label, func(i int) (bool, string) {
		if i < 1 || i > n {
			return false, fmt.Sprintf("Please enter a number between 1 and %d", n)
		}
		return true, ""
	})
}

// checkWith adapts a domain validator to askValid.
func checkWith(validate func(string) (bool, string)) func(string) string {
	return func(answer string) string {
		if ok, msg := validate(answer); !ok {
			return msg
		}
		return ""
	}
}
