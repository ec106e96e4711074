package gateway

import "strings"

// CommandIntent is a command that passed authorization, kept together with
// its token split for the lifetime of one dispatch. Never persisted.
type CommandIntent struct {
	Command string
	Tokens  []string
}

// defaultDenylist holds the delete-equivalents that are always rejected.
var defaultDenylist = []string{"rm", "unlink"}

// AuthorizeCommand decides whether a shell command may execute against root.
//
// Tokens are split on whitespace only; shell quoting is NOT respected. This
// is a deliberate, inherited weak point: switching to a real shell lexer
// would change which commands are rejected. Denylist matching is exact per
// token, so an argument like ./data/rm-old does not trip it.
//
// The root check is syntactic: at least one token must start with the
// literal root prefix. The authorizer does not resolve paths the way the
// Path Guard does; a command can pass here and still escape via symlinks or
// environment expansion. Accepted limitation of this layer.
func AuthorizeCommand(command, root string, extraDeny []string) (CommandIntent, error) {
	tokens := strings.Fields(command)
	if len(tokens) == 0 {
		return CommandIntent{}, Errf(KindSandboxViolation, "empty command")
	}

	deny := make(map[string]bool, len(defaultDenylist)+len(extraDeny))
	for _, verb := range defaultDenylist {
		deny[verb] = true
	}
	for _, verb := range extraDeny {
		if verb = strings.TrimSpace(verb); verb != "" {
			deny[verb] = true
		}
	}

	for _, tok := range tokens {
		if deny[tok] {
			return CommandIntent{}, Errf(KindDestructiveOperation, "file deletion is not allowed")
		}
	}

	scoped := false
	for _, tok := range tokens {
		if strings.HasPrefix(tok, root) {
			scoped = true
			break
		}
	}
	if !scoped {
		return CommandIntent{}, Errf(KindSandboxViolation, "access outside %s is not allowed", root)
	}

	return CommandIntent{Command: command, Tokens: tokens}, nil
}
