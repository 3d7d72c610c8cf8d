// Package terminal is a line-oriented presenter.Surface: rows are printed
// as an aligned table and commands are read one per line.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/naka-gawa/github-favorites/internal/presenter"
)

const helpText = `Commands:
  add <username>    add a GitHub account to the favorites
  rm <#|login>      remove a row (asks for confirmation)
  ls                print the table again
  help              show this help
  quit              leave`

// Surface implements presenter.Surface, TableBody and AddControl over a
// reader and a writer.
type Surface struct {
	in  *bufio.Scanner
	out io.Writer

	// lines is fed by a single reader goroutine so that a blocked read
	// never keeps Run from seeing ctx.Done.
	startReader sync.Once
	lines       chan string

	mu     sync.Mutex
	rows   []presenter.Row
	value  string
	submit func(ctx context.Context)
	done   <-chan struct{}
}

// New returns a Surface reading commands from in and writing to out.
// in may be nil for a surface that only prints.
func New(in io.Reader, out io.Writer) *Surface {
	s := &Surface{out: out}
	if in != nil {
		s.in = bufio.NewScanner(in)
	}
	return s
}

// TableBody returns the surface itself; rows are printed by PrintTable.
func (s *Surface) TableBody() presenter.TableBody { return s }

// AddControl returns the surface itself; its value is set by the add command.
func (s *Surface) AddControl() presenter.AddControl { return s }

// Clear drops every row.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
}

// Append adds row after the existing ones.
func (s *Surface) Append(row presenter.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
}

// Value returns the username given to the last add command.
func (s *Surface) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// OnSubmit sets the handler run by the add command.
func (s *Surface) OnSubmit(fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submit = fn
}

// Alert prints message as a notice line.
func (s *Surface) Alert(message string) {
	fmt.Fprintf(s.out, "! %s\n", message)
}

// Confirm prints prompt and reads a y/N answer from the surface input.
// While Run is active, a cancelled context counts as no.
func (s *Surface) Confirm(prompt string) bool {
	fmt.Fprintf(s.out, "%s [y/N] ", prompt)
	line, ok := s.readLine()
	return ok && isYes(line)
}

// NewConfirm returns a presenter.Confirm reading answers from in.
func NewConfirm(in io.Reader, out io.Writer) presenter.Confirm {
	return New(in, out).Confirm
}

// PrintTable writes the current rows.
func (s *Surface) PrintTable() {
	s.mu.Lock()
	rows := append([]presenter.Row(nil), s.rows...)
	s.mu.Unlock()

	if len(rows) == 0 {
		fmt.Fprintln(s.out, "No favorites yet. Use: add <username>")
		return
	}
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tLOGIN\tNAME\tREPOS\tFOLLOWERS\tPROFILE")
	for i, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, r.Login, r.Name, r.Repositories, r.Followers, r.ProfileURL)
	}
	w.Flush()
}

// Run reads commands until quit, end of input or ctx is done. A done
// ctx interrupts a pending read and its error is returned.
func (s *Surface) Run(ctx context.Context) error {
	if s.in == nil {
		return errors.New("terminal surface has no input")
	}
	s.mu.Lock()
	s.done = ctx.Done()
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.done = nil
		s.mu.Unlock()
	}()

	s.PrintTable()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, "> ")
		line, ok := s.readLine()
		if !ok {
			fmt.Fprintln(s.out)
			if err := ctx.Err(); err != nil {
				return err
			}
			return s.in.Err()
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)
		switch strings.ToLower(cmd) {
		case "":
		case "add":
			s.add(ctx, arg)
			s.PrintTable()
		case "rm", "remove", "del":
			if s.remove(arg) {
				s.PrintTable()
			}
		case "ls", "list":
			s.PrintTable()
		case "help", "?":
			fmt.Fprintln(s.out, helpText)
		case "quit", "exit", "q":
			return nil
		default:
			s.Alert(fmt.Sprintf("unknown command %q, type help", cmd))
		}
	}
}

func (s *Surface) add(ctx context.Context, username string) {
	s.mu.Lock()
	s.value = username
	submit := s.submit
	s.mu.Unlock()
	if submit != nil {
		submit(ctx)
	}
}

// remove fires the remove trigger of the row named by a 1-based index or a login.
func (s *Surface) remove(arg string) bool {
	s.mu.Lock()
	rows := append([]presenter.Row(nil), s.rows...)
	s.mu.Unlock()

	row, ok := findRow(rows, arg)
	if !ok {
		s.Alert(fmt.Sprintf("no row %q", arg))
		return false
	}
	if row.Remove != nil {
		row.Remove()
	}
	return true
}

func findRow(rows []presenter.Row, arg string) (presenter.Row, bool) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n >= 1 && n <= len(rows) {
			return rows[n-1], true
		}
		return presenter.Row{}, false
	}
	for _, r := range rows {
		if r.Login == arg {
			return r, true
		}
	}
	return presenter.Row{}, false
}

// readLine waits for the next input line. It reports false at end of
// input or when the context of a running Run is done.
func (s *Surface) readLine() (string, bool) {
	if s.in == nil {
		return "", false
	}
	s.startReader.Do(func() {
		s.lines = make(chan string)
		go func() {
			defer close(s.lines)
			for s.in.Scan() {
				s.lines <- s.in.Text()
			}
		}()
	})

	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	select {
	case line, ok := <-s.lines:
		return line, ok
	case <-done:
		return "", false
	}
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
