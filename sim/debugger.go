package sim

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// RunInteractive drives the simulator from an interactive REPL reading
// commands from r and writing prompts/output to w:
//
//	n      advance one popped event
//	c N    continue until cycle N
//	p      print all router/terminal state
//	q      quit
//	""     no-op
func (s *Simulator) RunInteractive(r io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprintf(w, "(netsim @%d) ", s.Now())
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "n":
			if !s.Step() {
				fmt.Fprintln(w, "event queue empty")
			}
		case "c":
			if len(fields) != 2 {
				fmt.Fprintln(w, "usage: c N")
				continue
			}
			until, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				fmt.Fprintf(w, "bad cycle %q\n", fields[1])
				continue
			}
			s.Run(until)
		case "p":
			fmt.Fprint(w, s.PrintAllStates())
		case "q":
			s.Stats().Fprint(w)
			return
		default:
			fmt.Fprintf(w, "unknown command: %q\n", fields[0])
		}
	}
}

// RunInteractiveStdio is a convenience wrapper for the CLI entry point.
func (s *Simulator) RunInteractiveStdio() {
	s.RunInteractive(os.Stdin, os.Stdout)
}
