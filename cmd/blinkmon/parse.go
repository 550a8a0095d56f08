package main

import (
	"strconv"
	"strings"
	"time"
)

// Line is one parsed firmware console line: "Level: msg k=v k=v".
type Line struct {
	Level  string
	Msg    string
	Fields map[string]string
}

// ParseLine splits a console line. Message words run until the first
// key=value token. ok is false for lines without a level prefix.
func ParseLine(s string) (Line, bool) {
	s = strings.TrimRight(s, "\r\n")
	lvl, rest, found := strings.Cut(s, ": ")
	if !found {
		return Line{}, false
	}
	switch lvl {
	case "Info", "Error", "Debug":
	default:
		return Line{}, false
	}
	l := Line{Level: lvl, Fields: map[string]string{}}
	var msg []string
	inFields := false
	for _, tok := range strings.Fields(rest) {
		k, v, ok := strings.Cut(tok, "=")
		if ok && k != "" && len(msg) > 0 {
			inFields = true
		}
		if inFields {
			if ok && k != "" {
				l.Fields[k] = v
			}
			continue
		}
		msg = append(msg, tok)
	}
	l.Msg = strings.Join(msg, " ")
	return l, true
}

// Duration reads a field written as "250ms" or "1500us".
func (l Line) Duration(k string) (time.Duration, bool) {
	d, err := time.ParseDuration(l.Fields[k])
	return d, err == nil
}

// Uint reads an unsigned integer field.
func (l Line) Uint(k string) (uint64, bool) {
	n, err := strconv.ParseUint(l.Fields[k], 10, 64)
	return n, err == nil
}

// Summary accumulates what the monitor has seen.
type Summary struct {
	Delay        time.Duration
	DelayChanges int
	Bursts       uint64
	Presses      uint64
	Errors       int
}

// Apply folds one line into the summary and reports whether it changed.
func (s *Summary) Apply(l Line) bool {
	switch {
	case l.Level == "Error":
		s.Errors++
		return true
	case l.Msg == "delay changed":
		if d, ok := l.Duration("to"); ok {
			s.Delay = d
			s.DelayChanges++
			return true
		}
	case l.Msg == "blink":
		changed := false
		if d, ok := l.Duration("delay"); ok {
			s.Delay, changed = d, true
		}
		if n, ok := l.Uint("bursts"); ok {
			s.Bursts, changed = n, true
		}
		if n, ok := l.Uint("presses"); ok {
			s.Presses = n
		}
		return changed
	}
	return false
}
