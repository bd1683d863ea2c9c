package sink

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// PrinterSink pipes each result line to a local print command (lp or
// similar). The command is trusted configuration, not user input.
type PrinterSink struct {
	cmd  string
	args []string
}

func NewPrinterSink(cmd string, args []string) *PrinterSink {
	return &PrinterSink{
		cmd:  cmd,
		args: args,
	}
}

func (p *PrinterSink) Record(ctx context.Context, line string) error {
	cmd := exec.CommandContext(ctx, p.cmd, p.args...)
	cmd.Stdin = strings.NewReader(line + "\n")

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("sink: print command failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}
