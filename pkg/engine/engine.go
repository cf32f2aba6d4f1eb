// Package engine provides the Lisp scripting layer for polyframe.
// It wraps zygomys in a sandboxed environment; a script loads meshes,
// runs the topology operators on them, and saves the results. Each
// evaluation owns a fresh sandbox and a fresh session.
package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/meshops/polyframe/pkg/mesh"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in the script.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Session accumulates the named meshes and printed output of one
// script evaluation.
type Session struct {
	meshes map[string]*mesh.Mesh
	Output []string
}

func newSession() *Session {
	return &Session{meshes: make(map[string]*mesh.Mesh)}
}

// Mesh returns the named mesh, or nil.
func (s *Session) Mesh(name string) *mesh.Mesh {
	return s.meshes[name]
}

// Names lists the registered mesh names, sorted.
func (s *Session) Names() []string {
	names := make([]string, 0, len(s.meshes))
	for n := range s.meshes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Session) put(name string, m *mesh.Mesh) {
	s.meshes[name] = m
}

func (s *Session) printf(format string, args ...interface{}) {
	s.Output = append(s.Output, fmt.Sprintf(format, args...))
}

// Engine evaluates polyframe scripts. It is safe for concurrent use;
// each call to Evaluate creates a fresh sandboxed environment.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs a script and returns its session.
//
// Return semantics:
//   - On success: session + nil errors + nil error
//   - On parse/eval failure: nil session + eval errors + nil error
//   - On fatal failure (timeout, panic): nil + nil + error
func (e *Engine) Evaluate(source string) (*Session, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		s, evalErrs, err := e.evaluate(source)
		ch <- evalResult{session: s, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Session, []EvalError, error) {
	session := newSession()
	if strings.TrimSpace(source) == "" {
		return session, nil, nil
	}

	// Sandbox mode keeps script code away from the filesystem and
	// syscalls; the load/save builtins are the only I/O surface.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, session)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return session, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting line numbers from the message where possible.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, pat := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := pat.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
