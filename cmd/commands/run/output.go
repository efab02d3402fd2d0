package run

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"nathanbeddoewebdev/actionrunner/internal/actionstore"
	"nathanbeddoewebdev/actionrunner/internal/dbexec"
	"nathanbeddoewebdev/actionrunner/internal/domain"
	"nathanbeddoewebdev/actionrunner/internal/tui/styles"
)

// printer serialises output from the runner, the store subscription and
// the acknowledger. Writes after close are dropped.
type printer struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
	last   map[string]domain.StatusCode
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, last: map[string]domain.StatusCode{}}
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) line(s string) {
	p.printf("%s\n", s)
}

// change prints a status transition. Updates that leave the status as it
// was are skipped.
func (p *printer) change(c actionstore.Change) {
	code := c.State.Status.Code()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.last[c.ID] == code {
		return
	}
	p.last[c.ID] = code
	fmt.Fprintf(p.w, "%s  %s %s\n", styles.StatusIndicator(code), c.State.Kind(), c.ID)
}

// result prints the rows returned by a confirmed query.
func (p *printer) result(id string, res *dbexec.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	if len(res.Columns) == 0 {
		fmt.Fprintf(p.w, "Query %s: %d row(s) affected\n", id, res.RowsAffected)
		return
	}

	fmt.Fprintf(p.w, "Query %s: %d row(s)\n", id, len(res.Rows))
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(res.Columns, "\t"))
	for _, row := range res.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

// summary prints the final status table.
func (p *printer) summary(runID string, states []domain.ActionState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	fmt.Fprintf(p.w, "\nRun %s\n", runID)
	w := tabwriter.NewWriter(p.w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tERROR")
	fmt.Fprintln(w, "--\t----\t------\t-----")
	for _, s := range states {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Kind(), s.Status.Code(), firstLine(s.Status.Message()))
	}
	w.Flush()
}

func (p *printer) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
