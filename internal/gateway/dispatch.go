package gateway

import (
	"context"
	"fmt"
	"strings"
)

// Outcome is the terminal response shape of one dispatch. Callers branch on
// Status only; both success and failure travel in the same envelope.
type Outcome struct {
	Status  string `json:"status"`
	Output  string `json:"output,omitempty"`
	Message string `json:"message,omitempty"`
}

func successOutcome(output string) Outcome {
	return Outcome{Status: StatusSuccess, Output: output}
}

func errorOutcome(err error) Outcome {
	return Outcome{Status: StatusError, Message: err.Error()}
}

// Dispatcher orchestrates one task end to end: oracle (or fixed lookup),
// normalization, authorization, execution, history.
type Dispatcher struct {
	Oracle   CommandOracle
	Executor CommandExecutor
	History  *HistoryStore
	Logger   *Logger

	// Root is the literal prefix the authorizer requires on at least one
	// command token, e.g. "./data".
	Root     string
	Denylist []string
}

// Run processes a single task. Authorization rejections return without a
// history write; execution failures are recorded with status=error. A
// successful dispatch produces exactly one success row.
func (d *Dispatcher) Run(ctx context.Context, task string) Outcome {
	command, named := namedCommand(task, d.Root)
	if !named {
		generated, err := d.Oracle.Command(ctx, task)
		if err != nil {
			d.Logger.Error("oracle query failed", map[string]interface{}{"task": task, "error": err.Error()})
			return errorOutcome(err)
		}
		command = generated
	}

	command = stripFence(command)

	intent, err := AuthorizeCommand(command, d.Root, d.Denylist)
	if err != nil {
		d.Logger.Info("command rejected", map[string]interface{}{
			"task":    task,
			"command": command,
			"kind":    KindOf(err).String(),
		})
		return errorOutcome(err)
	}

	output, err := d.Executor.Execute(ctx, intent)
	if err != nil {
		if recErr := d.History.Record(task, StatusError, err.Error()); recErr != nil {
			d.Logger.Error("history write failed", map[string]interface{}{"error": recErr.Error()})
		}
		return errorOutcome(err)
	}

	if recErr := d.History.Record(task, StatusSuccess, output); recErr != nil {
		d.Logger.Error("history write failed", map[string]interface{}{"error": recErr.Error()})
	}
	return successOutcome(output)
}

// stripFence removes exactly one leading+trailing fenced-block wrapper pair
// from an oracle reply. Some oracles wrap the command defensively, with or
// without a language tag on the opening line. Embedded fence-like substrings
// are left alone.
func stripFence(command string) string {
	trimmed := strings.TrimSpace(command)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

// namedCommand resolves well-known task names without a network round-trip.
// Unknown names fall through to the oracle.
func namedCommand(task, root string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(task)) {
	case "list-data":
		return fmt.Sprintf("ls -la %s", root), true
	case "disk-usage":
		return fmt.Sprintf("du -sh %s", root), true
	case "count-files":
		return fmt.Sprintf("find %s -type f | wc -l", root), true
	default:
		return "", false
	}
}
