package nbrowse

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
)

// replCompleter completes the word under the cursor against command names and the names of the
// current location's children.
type replCompleter struct {
	s *Session
}

func (c replCompleter) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])
	word := head
	if i := strings.LastIndexByte(head, ' '); i >= 0 {
		word = head[i+1:]
	}

	candidates := make([]string, 0, len(c.s.commands)+1)
	for name := range c.s.commands {
		candidates = append(candidates, name)
	}
	candidates = append(candidates, "exit")
	if children, err := c.s.Current().List(); err == nil {
		for _, child := range children {
			candidates = append(candidates, child.Name())
		}
	}

	completions := make([][]rune, 0, len(candidates))
	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, word) && candidate != word {
			completions = append(completions, []rune(candidate[len(word):]))
		}
	}
	return completions, len([]rune(word))
}

func (s *Session) prompt() string {
	current := s.Current()
	return fmt.Sprintf(
		"<%s> %s$ ", s.theme.Paint(current.Class(), current), current.Name(),
	)
}

// RunShell runs the interactive loop until exit, EOF, or interrupt at an empty prompt. The
// readline instance also serves as the masked password prompt for encrypted archives.
func (s *Session) RunShell() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		AutoComplete:    replCompleter{s: s},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return errors.Wrap(err, "couldn't initialize the interactive prompt")
	}
	defer rl.Close()
	s.SetPasswordFunc(func(prompt string) (string, error) {
		password, err := rl.ReadPassword(prompt)
		if err != nil {
			return "", errors.Wrap(err, "couldn't read password")
		}
		return string(password), nil
	})

	for {
		rl.SetPrompt(s.prompt())
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "couldn't read command")
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}
		if err = s.Execute(line); err != nil {
			fmt.Fprintf(s.out, "Error: %s\n", err)
		}
	}
	fmt.Fprintln(s.out, "Exiting...")
	return s.Cleanup()
}
