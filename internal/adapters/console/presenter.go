package console

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/prxgr4mmer/price-ticker/internal/domain"
	"github.com/prxgr4mmer/price-ticker/internal/ports"
)

const (
	timestampLayout = "02.01.06 15:04.05"

	// Width of a change column, wide enough for "-100.0%" plus a gap
	changeWidth = 9
)

// Presenter formats ticker lines. It holds no mutable state, so the same
// input always renders to the same output.
type Presenter struct {
	location *time.Location
	color    bool

	up     lipgloss.Style
	down   lipgloss.Style
	notice lipgloss.Style
	faint  lipgloss.Style
}

// PresenterOption configures the presenter
type PresenterOption func(*Presenter)

// WithLocation sets the time zone timestamps are rendered in
func WithLocation(loc *time.Location) PresenterOption {
	return func(p *Presenter) {
		if loc != nil {
			p.location = loc
		}
	}
}

// WithColor enables or disables styling
func WithColor(enabled bool) PresenterOption {
	return func(p *Presenter) {
		p.color = enabled
	}
}

// WithRenderer binds the styles to a specific lipgloss renderer
func WithRenderer(r *lipgloss.Renderer) PresenterOption {
	return func(p *Presenter) {
		p.setStyles(r)
	}
}

// NewPresenter creates a new presenter
func NewPresenter(opts ...PresenterOption) *Presenter {
	p := &Presenter{
		location: time.Local,
		color:    true,
	}
	p.setStyles(lipgloss.DefaultRenderer())

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Presenter) setStyles(r *lipgloss.Renderer) {
	p.up = r.NewStyle().Foreground(lipgloss.Color("2"))     // Green
	p.down = r.NewStyle().Foreground(lipgloss.Color("1"))   // Red
	p.notice = r.NewStyle().Foreground(lipgloss.Color("3")) // Yellow
	p.faint = r.NewStyle().Faint(true)
}

// RenderPrice formats a price view as one ticker line
func (p *Presenter) RenderPrice(view domain.PriceView) string {
	r := view.Reading

	return fmt.Sprintf("%s %s price: $%s %s%s",
		r.Timestamp.In(p.location).Format(timestampLayout),
		r.Asset,
		FormatUSD(r.PriceUSD),
		p.renderChange(view.ChangeVsPrevious),
		p.renderChange(view.ChangeVsBase),
	)
}

// RenderInterval formats the confirmation of a new polling interval
func (p *Presenter) RenderInterval(interval time.Duration) string {
	return fmt.Sprintf("Set updating freq to: %.1f seconds.", interval.Seconds())
}

// RenderNotice formats a diagnostic message
func (p *Presenter) RenderNotice(msg string) string {
	return p.style(p.notice, msg)
}

// RenderHint formats secondary information such as startup hints
func (p *Presenter) RenderHint(msg string) string {
	return p.style(p.faint, msg)
}

// RenderSummary formats the end-of-session statistics
func (p *Presenter) RenderSummary(stats domain.SessionStats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session %s: %d updates, %d failed",
		stats.Uptime.Round(time.Second), stats.PollCount, stats.FailureCount)

	if stats.First != nil && stats.Last != nil {
		fmt.Fprintf(&b, ", %s $%s -> $%s",
			stats.Last.Asset, FormatUSD(stats.First.PriceUSD), FormatUSD(stats.Last.PriceUSD))
		if change := stats.SessionChange(); change != nil {
			b.WriteString(" ")
			b.WriteString(p.renderSigned(*change, FormatChange(*change)))
		}
	}

	b.WriteString(".")
	return b.String()
}

func (p *Presenter) renderChange(change *float64) string {
	if change == nil {
		return strings.Repeat(" ", changeWidth)
	}

	text := fmt.Sprintf("%*s", changeWidth, FormatChange(*change))
	return p.renderSigned(*change, text)
}

func (p *Presenter) renderSigned(value float64, text string) string {
	if value < 0 {
		return p.style(p.down, text)
	}
	return p.style(p.up, text)
}

func (p *Presenter) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// FormatUSD formats a price with thousands separators and two decimals, like 45,900.00
func FormatUSD(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.2f", v)
}

// FormatChange formats a percentage with an explicit sign: two decimals below
// 10%, one decimal from there on.
func FormatChange(v float64) string {
	if math.Abs(v) < 10 {
		return fmt.Sprintf("%+.2f%%", v)
	}
	return fmt.Sprintf("%+.1f%%", v)
}

// Ensure Presenter implements ports.Presenter
var _ ports.Presenter = (*Presenter)(nil)
