package dist

import (
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// Environment holds PEP 508 marker variables for dependency evaluation.
type Environment map[string]string

// DefaultEnvironment builds a best-effort marker environment from the
// host platform. The Python version defaults to "3" when the caller has
// not derived one from the environment layout; use WithPythonVersion to
// refine it.
func DefaultEnvironment() Environment {
	env := Environment{
		"python_version":      "3",
		"python_full_version": "3",
		"implementation_name": "cpython",
		"platform_machine":    runtime.GOARCH,
	}
	switch runtime.GOOS {
	case "windows":
		env["sys_platform"] = "win32"
		env["os_name"] = "nt"
		env["platform_system"] = "Windows"
	case "darwin":
		env["sys_platform"] = "darwin"
		env["os_name"] = "posix"
		env["platform_system"] = "Darwin"
	default:
		env["sys_platform"] = runtime.GOOS
		env["os_name"] = "posix"
		env["platform_system"] = strings.ToUpper(runtime.GOOS[:1]) + runtime.GOOS[1:]
	}
	return env
}

// WithPythonVersion returns a copy of the environment with the Python
// version markers set (e.g., "3.12").
func (e Environment) WithPythonVersion(v string) Environment {
	out := make(Environment, len(e))
	for k, val := range e {
		out[k] = val
	}
	out["python_version"] = v
	out["python_full_version"] = v
	return out
}

var (
	depNameRE = regexp.MustCompile(`^\s*([a-zA-Z0-9][-a-zA-Z0-9._]*)`)
	extraRE   = regexp.MustCompile(`\bextra\s*[=!]=`)
)

// Dependencies evaluates the distribution's raw Requires-Dist specifiers
// against env and returns the normalized names of applicable runtime
// dependencies.
//
// Specifiers gated behind an extra are always skipped (extras are not
// supported), and specifiers that fail to parse or evaluate are silently
// ignored.
func (d *Distribution) Dependencies(env Environment) []string {
	seen := make(map[string]bool)
	var deps []string

	for _, req := range d.Requires {
		name, marker, ok := splitRequirement(req)
		if !ok {
			continue
		}
		if marker != "" {
			if extraRE.MatchString(marker) {
				continue
			}
			applies, err := evalMarker(marker, env)
			if err != nil || !applies {
				continue
			}
		}
		key := NormalizeName(name)
		if !seen[key] {
			seen[key] = true
			deps = append(deps, key)
		}
	}
	return deps
}

// splitRequirement separates a PEP 508 specifier into its package name
// and optional environment marker (the part after ';').
func splitRequirement(req string) (name, marker string, ok bool) {
	spec, markerPart, _ := strings.Cut(req, ";")
	m := depNameRE.FindStringSubmatch(spec)
	if len(m) < 2 {
		return "", "", false
	}
	return m[1], strings.TrimSpace(markerPart), true
}

// evalMarker evaluates a PEP 508 environment marker expression.
//
// The grammar is a pragmatic subset: parenthesized expressions combined
// with "and"/"or", over comparisons of quoted literals and environment
// variables using ==, !=, <, <=, >, >=, in, and not in. Version-shaped
// operands are compared numerically by component, everything else
// lexically.
func evalMarker(marker string, env Environment) (bool, error) {
	toks, err := tokenizeMarker(marker)
	if err != nil {
		return false, err
	}
	p := &markerParser{toks: toks, env: env}
	v, err := p.parseOr()
	if err != nil {
		return false, err
	}
	if p.pos != len(p.toks) {
		return false, fmt.Errorf("trailing tokens in marker %q", marker)
	}
	return v, nil
}

type markerParser struct {
	toks []string
	pos  int
	env  Environment
}

func (p *markerParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *markerParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *markerParser) parseOr() (bool, error) {
	v, err := p.parseAnd()
	if err != nil {
		return false, err
	}
	for p.peek() == "or" {
		p.next()
		rhs, err := p.parseAnd()
		if err != nil {
			return false, err
		}
		v = v || rhs
	}
	return v, nil
}

func (p *markerParser) parseAnd() (bool, error) {
	v, err := p.parseAtom()
	if err != nil {
		return false, err
	}
	for p.peek() == "and" {
		p.next()
		rhs, err := p.parseAtom()
		if err != nil {
			return false, err
		}
		v = v && rhs
	}
	return v, nil
}

func (p *markerParser) parseAtom() (bool, error) {
	if p.peek() == "(" {
		p.next()
		v, err := p.parseOr()
		if err != nil {
			return false, err
		}
		if p.next() != ")" {
			return false, fmt.Errorf("missing closing paren")
		}
		return v, nil
	}
	return p.parseComparison()
}

func (p *markerParser) parseComparison() (bool, error) {
	lhs, err := p.operand()
	if err != nil {
		return false, err
	}
	op := p.next()
	if op == "not" {
		if p.next() != "in" {
			return false, fmt.Errorf("expected 'in' after 'not'")
		}
		op = "not in"
	}
	rhs, err := p.operand()
	if err != nil {
		return false, err
	}
	return compare(lhs, op, rhs)
}

func (p *markerParser) operand() (string, error) {
	t := p.next()
	if t == "" {
		return "", fmt.Errorf("unexpected end of marker")
	}
	if strings.HasPrefix(t, `"`) || strings.HasPrefix(t, "'") {
		return t[1 : len(t)-1], nil
	}
	if v, ok := p.env[t]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown marker variable %q", t)
}

func compare(lhs, op, rhs string) (bool, error) {
	switch op {
	case "==", "===":
		return markerCmp(lhs, rhs) == 0, nil
	case "!=":
		return markerCmp(lhs, rhs) != 0, nil
	case "<":
		return markerCmp(lhs, rhs) < 0, nil
	case "<=":
		return markerCmp(lhs, rhs) <= 0, nil
	case ">":
		return markerCmp(lhs, rhs) > 0, nil
	case ">=":
		return markerCmp(lhs, rhs) >= 0, nil
	case "~=":
		// Compatible release: treated as >= for marker purposes.
		return markerCmp(lhs, rhs) >= 0, nil
	case "in":
		return strings.Contains(rhs, lhs), nil
	case "not in":
		return !strings.Contains(rhs, lhs), nil
	default:
		return false, fmt.Errorf("unknown operator %q", op)
	}
}

var versionishRE = regexp.MustCompile(`^\d+(\.\d+)*$`)

// markerCmp compares two operands, numerically by dotted component when
// both look like versions, lexically otherwise.
func markerCmp(a, b string) int {
	if versionishRE.MatchString(a) && versionishRE.MatchString(b) {
		return versionCmp(a, b)
	}
	return strings.Compare(a, b)
}

func versionCmp(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var ai, bi int
		if i < len(as) {
			ai, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bi, _ = strconv.Atoi(bs[i])
		}
		if ai != bi {
			if ai < bi {
				return -1
			}
			return 1
		}
	}
	return 0
}

var markerTokenRE = regexp.MustCompile(`\s*("([^"]*)"|'([^']*)'|[()]|===|==|!=|<=|>=|~=|<|>|[A-Za-z_][A-Za-z0-9_.]*)`)

// tokenizeMarker splits a marker expression into tokens, preserving the
// quote character on string literals so operand can distinguish them.
func tokenizeMarker(marker string) ([]string, error) {
	var toks []string
	rest := marker
	for strings.TrimSpace(rest) != "" {
		m := markerTokenRE.FindStringIndex(rest)
		if m == nil || m[0] != 0 {
			return nil, fmt.Errorf("cannot tokenize marker near %q", rest)
		}
		toks = append(toks, strings.TrimSpace(rest[:m[1]]))
		rest = rest[m[1]:]
	}
	return toks, nil
}
