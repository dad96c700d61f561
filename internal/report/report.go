// Package report renders simulation tallies for people and for machines.
package report

import (
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nvandessel/monty/internal/monty"
)

// Strategy is the per-strategy part of a Summary. WinRate is nil when the
// strategy played no trials.
type Strategy struct {
	Wins    uint64   `json:"wins"`
	Losses  uint64   `json:"losses"`
	WinRate *float64 `json:"win_rate"`
}

// Summary is the JSON shape of a finished run.
type Summary struct {
	ID        string   `json:"id,omitempty"`
	Trials    uint64   `json:"trials"`
	Workers   int      `json:"workers"`
	Source    string   `json:"source"`
	Trial     string   `json:"trial"`
	Played    uint64   `json:"played"`
	Switched  Strategy `json:"switched"`
	Stayed    Strategy `json:"stayed"`
	ElapsedMS int64    `json:"elapsed_ms"`
}

// Run describes the run a tally came from.
type Run struct {
	ID      string
	Trials  uint64
	Workers int
	Source  string
	Trial   string
	Elapsed time.Duration
}

// NewSummary builds a Summary from a tally and its run metadata.
func NewSummary(run Run, t monty.Tally) Summary {
	return Summary{
		ID:        run.ID,
		Trials:    run.Trials,
		Workers:   run.Workers,
		Source:    run.Source,
		Trial:     run.Trial,
		Played:    t.Total(),
		Switched:  strategy(t.Switched),
		Stayed:    strategy(t.Stayed),
		ElapsedMS: run.Elapsed.Milliseconds(),
	}
}

func strategy(r monty.ResultSet) Strategy {
	s := Strategy{Wins: r.Wins, Losses: r.Losses}
	if rate, err := r.WinRate(); err == nil {
		s.WinRate = &rate
	}
	return s
}

// Formatter renders tallies with locale-aware digit grouping.
type Formatter struct {
	p *message.Printer
}

// NewFormatter returns a Formatter for tag.
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{p: message.NewPrinter(tag)}
}

// Default formats for English.
var Default = NewFormatter(language.English)

// Count formats n with thousands separators.
func (f *Formatter) Count(n uint64) string {
	return f.p.Sprintf("%d", n)
}

// Format renders t as the multi-line results block.
func (f *Formatter) Format(t monty.Tally) string {
	var b strings.Builder
	b.WriteString("Results\n---------------------\n")
	b.WriteString("Switched:\n")
	f.writeSet(&b, t.Switched)
	b.WriteString("\nStayed:\n")
	f.writeSet(&b, t.Stayed)
	b.WriteString("\n")
	b.WriteString(f.p.Sprintf("%d games played", t.Total()))
	return b.String()
}

func (f *Formatter) writeSet(b *strings.Builder, r monty.ResultSet) {
	b.WriteString(f.p.Sprintf("%d wins, %d losses - ", r.Wins, r.Losses))
	rate, err := r.WinRate()
	if err != nil {
		b.WriteString("n/a win rate")
		return
	}
	b.WriteString(f.p.Sprintf("%.8f%% win rate", rate*100))
}

// Write renders t to w followed by a newline.
func (f *Formatter) Write(w io.Writer, t monty.Tally) error {
	_, err := io.WriteString(w, f.Format(t)+"\n")
	return err
}
