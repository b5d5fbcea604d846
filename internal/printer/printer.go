// Package printer provides print surfaces: documents written in full and
// then handed to the system print spooler.
package printer

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Surface is a document being composed for printing.
type Surface interface {
	io.StringWriter
	// Print submits the document. The surface must not be written to
	// afterwards.
	Print() error
	// Discard abandons the document without printing it. It is a no-op
	// once the surface has been printed or discarded.
	Discard() error
}

// Opener creates print surfaces. Open returns nil when no surface can be
// created, e.g. the print command is unavailable.
type Opener interface {
	Open(width, height int) Surface
}

// CommandOpener spools documents to temporary HTML files and prints them
// with an external command such as lp or lpr.
type CommandOpener struct {
	Command string
	Dir     string
	Timeout time.Duration

	lookPath func(string) (string, error)
}

// NewCommandOpener returns an opener running command (split on spaces) with
// the spool file as its last argument.
func NewCommandOpener(command string) *CommandOpener {
	return &CommandOpener{Command: command, Timeout: time.Minute, lookPath: exec.LookPath}
}

// Open implements Opener.
func (o *CommandOpener) Open(width, height int) Surface {
	args := strings.Fields(o.Command)
	if len(args) == 0 {
		return nil
	}
	lookPath := o.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	bin, err := lookPath(args[0])
	if err != nil {
		log.Printf("print command %q unavailable: %v", args[0], err)
		return nil
	}
	f, err := os.CreateTemp(o.Dir, "nexus-tui-print-*.html")
	if err != nil {
		log.Printf("creating print spool file: %v", err)
		return nil
	}
	return &fileSurface{
		file:    f,
		bin:     bin,
		args:    args[1:],
		width:   width,
		height:  height,
		timeout: o.Timeout,
	}
}

type fileSurface struct {
	file          *os.File
	bin           string
	args          []string
	width, height int
	timeout       time.Duration
	done          bool
}

func (s *fileSurface) WriteString(str string) (int, error) {
	if s.done {
		return 0, fmt.Errorf("print surface already submitted")
	}
	return s.file.WriteString(str)
}

func (s *fileSurface) Discard() error {
	if s.done {
		return nil
	}
	s.done = true
	defer os.Remove(s.file.Name())
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("closing spool file: %w", err)
	}
	return nil
}

func (s *fileSurface) Print() error {
	if s.done {
		return fmt.Errorf("print surface already submitted")
	}
	s.done = true
	path := s.file.Name()
	defer os.Remove(path)

	if err := s.file.Close(); err != nil {
		return fmt.Errorf("closing spool file: %w", err)
	}

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	args := append(append([]string{}, s.args...), path)
	out, err := exec.CommandContext(ctx, s.bin, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", s.bin, err, strings.TrimSpace(string(out)))
	}
	return nil
}
