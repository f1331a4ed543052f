// bar.go - Fortschrittsbalken fuer Trainings-Epochen
// Hauptfunktionen: NewBar, Bar.Set, Bar.SetPostfix, Bar.Stop
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// defaultWidth wird genutzt wenn w kein Terminal ist
const defaultWidth = 80

// Bar zeichnet "label  42% |=====>    | 42/100 [00:12<00:16] loss=..." in eine Zeile
type Bar struct {
	w       io.Writer
	label   string
	total   int
	current int
	postfix string
	started time.Time
	now     func() time.Time
}

// NewBar erstellt einen Balken fuer total Schritte
func NewBar(w io.Writer, label string, total int) *Bar {
	return &Bar{
		w:       w,
		label:   label,
		total:   total,
		started: time.Now(),
		now:     time.Now,
	}
}

// Set setzt den aktuellen Stand und zeichnet neu
func (b *Bar) Set(n int) {
	b.current = min(n, b.total)
	b.render()
}

// SetPostfix setzt die Schluessel/Wert-Paare hinter dem Balken
func (b *Bar) SetPostfix(kv ...any) {
	var sb strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		switch v := kv[i+1].(type) {
		case float64:
			fmt.Fprintf(&sb, "%v=%.4g", kv[i], v)
		default:
			fmt.Fprintf(&sb, "%v=%v", kv[i], v)
		}
	}
	b.postfix = sb.String()
}

// Stop zeichnet den Endstand und beendet die Zeile
func (b *Bar) Stop() {
	b.render()
	fmt.Fprintln(b.w)
}

// String gibt die aktuelle Zeile ohne Steuerzeichen zurueck
func (b *Bar) String() string {
	return b.line(b.width())
}

func (b *Bar) render() {
	fmt.Fprintf(b.w, "\r%s", b.line(b.width()))
}

func (b *Bar) width() int {
	if f, ok := b.w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}

func (b *Bar) line(width int) string {
	elapsed := b.now().Sub(b.started)

	percent := 100
	if b.total > 0 {
		percent = b.current * 100 / b.total
	}

	var remaining time.Duration
	if b.current > 0 {
		remaining = elapsed / time.Duration(b.current) * time.Duration(b.total-b.current)
	}

	pre := fmt.Sprintf("%s %3d%% ", b.label, percent)
	post := fmt.Sprintf(" %d/%d [%s<%s]", b.current, b.total, clock(elapsed), clock(remaining))
	if b.postfix != "" {
		post += " " + b.postfix
	}

	barWidth := width - len(pre) - len(post) - 2
	if barWidth < 10 {
		return pre + post
	}

	filled := barWidth
	if b.total > 0 {
		filled = barWidth * b.current / b.total
	}

	var sb strings.Builder
	sb.WriteString(pre)
	sb.WriteByte('|')
	sb.WriteString(strings.Repeat("=", filled))
	if filled < barWidth {
		sb.WriteByte('>')
		sb.WriteString(strings.Repeat(" ", barWidth-filled-1))
	}
	sb.WriteByte('|')
	sb.WriteString(post)
	return sb.String()
}

// clock formatiert d als mm:ss bzw. h:mm:ss
func clock(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
