// stacktrace.go structures stack traces from two sources: the runtime's
// program counters for in-process captures, and preformatted trace text for
// errors that arrive with one (foreign runtimes, wrapped errors, panics).

package allstack

import (
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// maxStackDepth bounds the number of program counters collected per capture.
const maxStackDepth = 64

// traceLinePattern matches one preformatted trace line: an optional frame
// index, a file path, a parenthesized line number, a colon, then the
// function or method identifier. Lines in any other shape become raw frames.
var traceLinePattern = regexp.MustCompile(`^\s*(?:#(\d+)\s+)?(.+?)\((\d+)\):\s*(.+)$`)

// ParseStackTrace structures raw multi-line trace text into frames. Line
// endings are normalized (\r\n, \n and \r all split), every input line
// yields exactly one frame in original order, and lines that do not match
// traceLinePattern are preserved verbatim as raw frames. Column is forced
// to 0: the text format does not report call columns.
func ParseStackTrace(text string) StackTrace {
	if text == "" {
		return nil
	}

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	lines := strings.Split(normalized, "\n")

	frames := make(StackTrace, 0, len(lines))
	for _, line := range lines {
		m := traceLinePattern.FindStringSubmatch(line)
		if m == nil {
			frames = append(frames, Frame{Raw: line})
			continue
		}
		lineNo, err := strconv.Atoi(m[3])
		if err != nil {
			frames = append(frames, Frame{Raw: line})
			continue
		}
		frames = append(frames, Frame{
			File:     m[2],
			Line:     lineNo,
			Column:   0,
			Function: m[4],
		})
	}
	return frames
}

// callerFrames collects structured frames for the calling goroutine from
// the runtime, skipping skip frames above this function.
func callerFrames(skip int) StackTrace {
	pcs := make([]uintptr, maxStackDepth)
	// +2 skips runtime.Callers itself and callerFrames.
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	var frames StackTrace
	iter := runtime.CallersFrames(pcs[:n])
	for {
		fr, more := iter.Next()
		frames = append(frames, Frame{
			File:     fr.File,
			Line:     fr.Line,
			Function: fr.Function,
		})
		if !more {
			break
		}
	}
	return frames
}

// formatFrames renders frames back into the one-line-per-frame text form
// that ParseStackTrace accepts, for the additionalData trace field.
func formatFrames(frames StackTrace) string {
	var b strings.Builder
	for i, f := range frames {
		if i > 0 {
			b.WriteByte('\n')
		}
		if f.parsed() {
			fmt.Fprintf(&b, "#%d %s(%d): %s", i, f.File, f.Line, f.Function)
		} else {
			b.WriteString(f.Raw)
		}
	}
	return b.String()
}
