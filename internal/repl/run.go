package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/peterh/liner"
	"golang.org/x/term"
)

const (
	historyFile = ".symexpr_history"
	prompt      = "symexpr> "
)

// Run reads lines from in until EOF or :quit. When in is a terminal it uses
// line editing and history; otherwise every line is evaluated in batch mode
// and Run reports how many lines failed.
func Run(in io.Reader, out io.Writer, ev Evaluator) error {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return interactive(out, ev)
	}
	return Batch(in, out, ev)
}

type printer struct {
	out    *termenv.Output
	render func(string) (string, error)
}

func newPrinter(w io.Writer, style glamour.TermRendererOption) *printer {
	r, _ := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	return &printer{
		out: termenv.NewOutput(w),
		render: func(markdown string) (string, error) {
			if r == nil {
				return markdown, nil
			}
			return r.Render(markdown)
		},
	}
}

func (p *printer) result(o Output) {
	if o.Text == "" {
		return
	}
	if o.Markdown {
		text, err := p.render(o.Text)
		if err != nil {
			text = o.Text
		}
		fmt.Fprint(p.out, text)
		return
	}
	fmt.Fprintln(p.out, p.out.String(o.Text).Foreground(p.out.Color("#34d399")))
}

func (p *printer) error(err error) {
	fmt.Fprintln(p.out, p.out.String("error: "+err.Error()).Foreground(p.out.Color("#f87171")))
}

// Batch evaluates each line of in without line editing or color.
func Batch(in io.Reader, out io.Writer, ev Evaluator) error {
	p := newPrinter(out, glamour.WithStandardStyle("notty"))
	sc := bufio.NewScanner(in)
	failed := 0
	for sc.Scan() {
		o, err := ev.Eval(sc.Text())
		if err != nil {
			p.error(err)
			failed++
			continue
		}
		if o.Quit {
			break
		}
		p.result(o)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d line(s) failed", failed)
	}
	return nil
}

func interactive(out io.Writer, ev Evaluator) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		var matches []string
		for _, c := range Commands {
			if strings.HasPrefix(c, line) {
				matches = append(matches, c)
			}
		}
		return matches
	})

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	p := newPrinter(out, glamour.WithAutoStyle())
	fmt.Fprintln(p.out, p.out.String("symexpr REPL, :help for commands").Faint())
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		o, err := ev.Eval(line)
		if err != nil {
			p.error(err)
			continue
		}
		if o.Quit {
			return nil
		}
		p.result(o)
	}
}
