package fact

import (
	"bufio"
	"fmt"
	"strings"
)

// Parse parses a single proposition in "predicate(arg1, arg2)" form.
// A trailing '.' is accepted, as is a bare predicate with no arguments.
func Parse(line string) (Proposition, error) {
	line = strings.TrimSpace(line)
	line = strings.TrimSpace(strings.TrimSuffix(line, "."))
	if line == "" {
		return Proposition{}, fmt.Errorf("empty proposition")
	}

	openParen := strings.Index(line, "(")
	if openParen == -1 {
		if strings.ContainsAny(line, ",) \t") {
			return Proposition{}, fmt.Errorf("missing '(': %s", line)
		}
		if !ValidName(line) {
			return Proposition{}, fmt.Errorf("invalid predicate %q", line)
		}
		return New(line), nil
	}

	predicate := strings.TrimSpace(line[:openParen])
	if predicate == "" {
		return Proposition{}, fmt.Errorf("missing predicate: %s", line)
	}
	if !ValidName(predicate) {
		return Proposition{}, fmt.Errorf("invalid predicate %q: %s", predicate, line)
	}

	closeParen := strings.LastIndex(line, ")")
	if closeParen == -1 || closeParen < openParen {
		return Proposition{}, fmt.Errorf("missing ')': %s", line)
	}
	if rest := strings.TrimSpace(line[closeParen+1:]); rest != "" {
		return Proposition{}, fmt.Errorf("unexpected text after ')': %s", line)
	}

	body := strings.TrimSpace(line[openParen+1 : closeParen])
	if body == "" {
		return New(predicate), nil
	}
	parts := strings.Split(body, ",")
	args := make([]string, len(parts))
	for i, part := range parts {
		arg := strings.TrimSpace(part)
		if arg == "" {
			return Proposition{}, fmt.Errorf("empty argument %d: %s", i+1, line)
		}
		if strings.ContainsAny(arg, "() \t") {
			return Proposition{}, fmt.Errorf("nested terms are not supported: %s", line)
		}
		if !ValidName(arg) {
			return Proposition{}, fmt.Errorf("invalid argument %q: %s", arg, line)
		}
		args[i] = arg
	}
	return New(predicate, args...), nil
}

// MustParse is like Parse but panics on error. Intended for static tables and tests.
func MustParse(line string) Proposition {
	p, err := Parse(line)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseAll parses each entry of lines.
func ParseAll(lines []string) ([]Proposition, error) {
	out := make([]Proposition, 0, len(lines))
	for i, line := range lines {
		p, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// ParseState reads a facts file: one proposition per line.
// Format:
//
//	light_status(kitchen, off).
//	light_status(bedroom, on)
//	# comments start with '#' or '%'
func ParseState(text string) (State, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNum := 0
	var props []Proposition

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "%") {
			continue
		}

		p, err := Parse(line)
		if err != nil {
			return State{}, fmt.Errorf("line %d: %w", lineNum, err)
		}
		props = append(props, p)
	}
	if err := scanner.Err(); err != nil {
		return State{}, err
	}

	return NewState(props...), nil
}
