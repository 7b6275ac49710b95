package trace

import (
	"fmt"
	"strings"
)

// Level controls how fine-grained the emitted events are.
type Level uint8

const (
	LevelOff    Level = iota // nothing
	LevelError               // run boundaries and failures
	LevelPhase               // plus passes
	LevelDetail              // plus lines
	LevelDebug               // everything
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// maxScope is the finest scope each level lets through.
var maxScope = [...]Scope{0, ScopeDriver, ScopePass, ScopeLine, ScopeStep}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel parses a level name, case-insensitively. The empty string is
// LevelOff.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass at level l.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(maxScope) || scope == 0 {
		return false
	}
	return scope <= maxScope[l]
}
