package cliapp

import (
	"fmt"
	"io"
)

// RenderProgress writes a single carriage-return-overwritten status line
// reporting done/total candidates evaluated. Callers typically invoke this
// from a ticking monitor goroutine while a search.Evaluate call runs.
func RenderProgress(w io.Writer, done, total int64) {
	if total <= 0 {
		fmt.Fprintf(w, "\revaluated %d candidates", done)
		return
	}
	pct := float64(done) / float64(total) * 100
	fmt.Fprintf(w, "\r[%6.2f%%] %d / %d candidates evaluated", pct, done, total)
}

// FinishProgress writes the final newline that ends a RenderProgress line.
func FinishProgress(w io.Writer) {
	fmt.Fprintln(w)
}
