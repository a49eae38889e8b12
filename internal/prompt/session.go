// Package prompt runs the interactive classification session that follows training.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/pkg/errors"

	"iris-forge/internal/dataset"
	"iris-forge/internal/model"
)

const (
	topQuestion    = "would you like to test a set of entries in a .txt file? (y/n), or q (quit): "
	fileQuestion   = "what's the name of the file?: "
	manualQuestion = "please enter data attributes, b (back), or q (quit): "
)

var separator = strings.Repeat("-", 80)

// Inferrer classifies normalized examples.
type Inferrer interface {
	Infer(dataset []model.Example) ([]model.Prediction, error)
}

// Session reads commands from in and writes reports to out.
type Session struct {
	clf  Inferrer
	norm dataset.Normalizer
	rng  *rand.Rand
	in   *bufio.Scanner
	out  io.Writer
}

// New creates a Session. Sets loaded from files are shuffled with rng when it is
// non-nil.
func New(in io.Reader, out io.Writer, clf Inferrer, norm dataset.Normalizer, rng *rand.Rand) *Session {
	return &Session{clf: clf, norm: norm, rng: rng, in: bufio.NewScanner(in), out: out}
}

// Run drives the session until the user quits or the input ends.
func (s *Session) Run() error {
	for {
		choice, ok := s.ask(topQuestion)
		if !ok {
			return s.inputErr()
		}
		switch choice {
		case "y":
			name, ok := s.ask(fileQuestion)
			if !ok {
				return s.inputErr()
			}
			s.testFile(name)
		case "n":
			quit, ok := s.manual()
			if !ok {
				return s.inputErr()
			}
			if quit {
				return nil
			}
		case "q":
			return nil
		}
	}
}

// manual handles single entries until the user goes back or quits.
func (s *Session) manual() (quit, ok bool) {
	for {
		line, ok := s.ask(manualQuestion)
		if !ok {
			return false, false
		}
		switch line {
		case "q":
			return true, true
		case "b":
			return false, true
		}
		ex, err := dataset.ParseEntry(line)
		if err != nil {
			continue
		}
		attrs, err := s.norm.ApplyVector(ex.Attributes)
		if err != nil {
			continue
		}
		s.report([]model.Example{{Attributes: attrs, Label: ex.Label}})
	}
}

func (s *Session) testFile(name string) {
	examples, err := dataset.Load(name, s.norm, s.rng)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	s.report(examples)
}

func (s *Session) report(examples []model.Example) {
	preds, err := s.clf.Infer(examples)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	for _, p := range preds {
		for _, label := range p.Labels {
			fmt.Fprintf(s.out, "prediction: %s\n", label)
		}
		fmt.Fprintf(s.out, "raw output: %v\n", p.Activations)
		fmt.Fprintln(s.out, separator)
	}
}

func (s *Session) ask(question string) (string, bool) {
	fmt.Fprint(s.out, question)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// inputErr is nil when the input simply ended.
func (s *Session) inputErr() error {
	if err := s.in.Err(); err != nil {
		return errors.Wrap(err, "prompt: read input")
	}
	return nil
}
