package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrTruncated reports that the input ended before a declared record.
	ErrTruncated = errors.New("unexpected end of input")
	// ErrNegativeCount reports a count or k line holding a negative integer.
	ErrNegativeCount = errors.New("negative count")
	// ErrTokenCount reports a coordinate line without exactly two tokens.
	ErrTokenCount = errors.New("want exactly two numbers")
	// ErrNotFinite reports a coordinate spelled as nan or inf.
	ErrNotFinite = errors.New("coordinate is not a finite number")
)

// FormatError is the single error kind returned by Parse.
type FormatError struct {
	Line     int    // 0-based index of the offending line
	Expected string // what the parser was reading at Line
	Text     string // the offending line, empty when input was truncated
	Err      error
}

func (e *FormatError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("line %d: expected %s: %v", e.Line+1, e.Expected, e.Err)
	}
	return fmt.Sprintf("line %d: expected %s, got %q: %v", e.Line+1, e.Expected, e.Text, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Parse reads a scene written in variant v from lines. Lines after the last
// record are ignored. Degenerate polygons are accepted as written.
func Parse(lines []string, v Variant) (Scene, error) {
	c := &cursor{lines: lines}
	s := Scene{Variant: v}

	// prologue
	switch v {
	case Guarded:
		obs, err := c.point("observer point")
		if err != nil {
			return Scene{}, err
		}
		k, err := c.count("visibility parameter k")
		if err != nil {
			return Scene{}, err
		}
		s.Observer, s.K = &obs, k
	case Bare, Pair:
	default:
		return Scene{}, fmt.Errorf("parse: unsupported %v", v)
	}

	primary, err := c.polygon("primary polygon")
	if err != nil {
		return Scene{}, err
	}
	s.Primary = primary

	// secondary list: counted, except Pair which always holds one
	m := 1
	if v != Pair {
		if m, err = c.count("secondary polygon count"); err != nil {
			return Scene{}, err
		}
	}
	s.Secondary = make([]Polygon, 0, min(m, c.remaining()))
	for j := 1; j <= m; j++ {
		p, err := c.polygon(fmt.Sprintf("secondary polygon %d of %d", j, m))
		if err != nil {
			return Scene{}, err
		}
		s.Secondary = append(s.Secondary, p)
	}
	return s, nil
}

// ParseReader reads all lines from r and parses them.
func ParseReader(r io.Reader, v Variant) (Scene, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return Scene{}, err
	}
	return Parse(lines, v)
}

// ReadLines splits r into lines without their terminators. A final newline
// does not produce a trailing empty line.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read scene lines: %w", err)
	}
	return lines, nil
}

// cursor only moves forward.
type cursor struct {
	lines []string
	i     int
}

func (c *cursor) remaining() int { return len(c.lines) - c.i }

func (c *cursor) next(expected string) (int, string, error) {
	if c.i >= len(c.lines) {
		return c.i, "", &FormatError{Line: c.i, Expected: expected, Err: ErrTruncated}
	}
	at := c.i
	c.i++
	return at, c.lines[at], nil
}

// count reads a non-negative base-10 integer line.
func (c *cursor) count(what string) (int, error) {
	expected := what + " (non-negative integer)"
	at, line, err := c.next(expected)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, &FormatError{Line: at, Expected: expected, Text: line, Err: err}
	}
	if n < 0 {
		return 0, &FormatError{Line: at, Expected: expected, Text: line, Err: ErrNegativeCount}
	}
	return n, nil
}

// point reads an "x y" line.
func (c *cursor) point(what string) (Point, error) {
	expected := what + ` ("x y")`
	at, line, err := c.next(expected)
	if err != nil {
		return Point{}, err
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Point{}, &FormatError{Line: at, Expected: expected, Text: line, Err: ErrTokenCount}
	}
	var xy [2]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
			err = ErrNotFinite
		}
		if err != nil {
			return Point{}, &FormatError{Line: at, Expected: expected, Text: line, Err: err}
		}
		xy[i] = v
	}
	return Point{X: xy[0], Y: xy[1]}, nil
}

// polygon reads a count line N followed by N vertex lines.
func (c *cursor) polygon(what string) (Polygon, error) {
	n, err := c.count(what + " vertex count")
	if err != nil {
		return nil, err
	}
	p := make(Polygon, 0, min(n, c.remaining()))
	for j := 1; j <= n; j++ {
		pt, err := c.point(fmt.Sprintf("%s vertex %d of %d", what, j, n))
		if err != nil {
			return nil, err
		}
		p = append(p, pt)
	}
	return p, nil
}
