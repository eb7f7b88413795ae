// Package lessons holds the topics printed by the lessons command. Each topic runs a short
// demonstration built on the repository packages and carries a question and answer study
// guide.
package lessons

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
)

var ErrUnknownTopic = errors.New("unknown topic")

// QA is one entry of a study guide.
type QA struct {
	Question string
	Answer   string
}

// Topic is a lesson.
type Topic struct {
	Run       func(ctx context.Context, p *Printer)
	Name      string
	Title     string
	Questions []QA
}

// Printer writes lesson output, keeping the first write error.
type Printer struct {
	w   io.Writer
	err error
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Printf writes a formatted line.
func (p *Printer) Printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

// Section writes a section heading.
func (p *Printer) Section(title string) {
	p.Printf("")
	p.Printf("== %s ==", title)
}

func (p *Printer) Err() error {
	return p.err
}

var registry = map[string]Topic{}

func register(t Topic) {
	registry[t.Name] = t
}

// Names returns the topic names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Get returns the topic called name.
func Get(name string) (Topic, error) {
	t, ok := registry[name]
	if !ok {
		return Topic{}, errors.Wrapf(ErrUnknownTopic, "%q", name)
	}

	return t, nil
}

// Show runs the demonstration of a topic and, when questions is set, prints its study guide.
func Show(ctx context.Context, w io.Writer, name string, questions bool) error {
	t, err := Get(name)
	if err != nil {
		return err
	}

	p := NewPrinter(w)
	p.Printf("# %s", t.Title)
	t.Run(ctx, p)

	if questions {
		p.Section("Questions")
		for i, qa := range t.Questions {
			p.Printf("Q%d: %s", i+1, qa.Question)
			p.Printf("A%d: %s", i+1, qa.Answer)
		}
	}

	return errors.Wrapf(p.Err(), "unable to print topic %s", name)
}
