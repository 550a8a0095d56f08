// Package logx writes short "Level: msg key=value" console lines.
//
// Lines are assembled in a fixed buffer with x/conv so the hot path does not
// pull in fmt on MCU builds.
package logx

import (
	"io"
	"os"
	"sync"
	"time"

	"buttonblink-go/x/conv"
)

type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

func (l Level) prefix() string {
	switch l {
	case LevelDebug:
		return "Debug:"
	case LevelError:
		return "Error:"
	default:
		return "Info:"
	}
}

// Field is one key=value pair.
type Field struct {
	Key  string
	str  string
	num  int64
	unum uint64
	kind byte // 0 = string, 1 = int, 2 = duration, 3 = uint
}

func Str(k, v string) Field               { return Field{Key: k, str: v} }
func Int(k string, v int64) Field         { return Field{Key: k, num: v, kind: 1} }
func Dur(k string, d time.Duration) Field { return Field{Key: k, num: int64(d), kind: 2} }
func Uint(k string, v uint64) Field       { return Field{Key: k, unum: v, kind: 3} }
func Err(err error) Field {
	if err == nil {
		return Str("err", "nil")
	}
	return Str("err", err.Error())
}

var (
	mu    sync.Mutex
	out   io.Writer = os.Stdout
	floor Level     = LevelInfo
	line  [160]byte
	numBf [20]byte
)

// SetOutput swaps the destination writer. A nil writer discards output.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
}

// SetLevel drops lines below l.
func SetLevel(l Level) {
	mu.Lock()
	floor = l
	mu.Unlock()
}

func Debug(msg string, fs ...Field) { write(LevelDebug, msg, fs) }
func Info(msg string, fs ...Field)  { write(LevelInfo, msg, fs) }
func Error(msg string, fs ...Field) { write(LevelError, msg, fs) }

func write(l Level, msg string, fs []Field) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil || l < floor {
		return
	}
	b := line[:0]
	b = append(b, l.prefix()...)
	b = append(b, ' ')
	b = append(b, msg...)
	for _, f := range fs {
		b = append(b, ' ')
		b = append(b, f.Key...)
		b = append(b, '=')
		switch f.kind {
		case 1:
			b = append(b, conv.Itoa(numBf[:], f.num)...)
		case 2:
			b = appendDuration(b, time.Duration(f.num))
		case 3:
			b = append(b, conv.Utoa(numBf[:], f.unum)...)
		default:
			b = append(b, f.str...)
		}
	}
	b = append(b, '\n')
	_, _ = out.Write(b)
}

// appendDuration renders whole milliseconds as "250ms" and anything finer
// in microseconds.
func appendDuration(b []byte, d time.Duration) []byte {
	if d%time.Millisecond == 0 {
		b = append(b, conv.Itoa(numBf[:], int64(d/time.Millisecond))...)
		return append(b, "ms"...)
	}
	b = append(b, conv.Itoa(numBf[:], int64(d/time.Microsecond))...)
	return append(b, "us"...)
}
