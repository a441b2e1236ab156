package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shivamnarkar47/ClearGive/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ApprovalStatus renders a colored approval status badge.
func ApprovalStatus(s domain.ApprovalStatus) string {
	switch s {
	case domain.ApprovalExecuted:
		return StyleGreen.Render("● executed")
	case domain.ApprovalApproved:
		return StyleBlue.Render("● approved")
	case domain.ApprovalPending:
		return StyleYellow.Render("● pending")
	case domain.ApprovalRejected:
		return StyleRed.Render("● rejected")
	case domain.ApprovalRefunded:
		return StylePurple.Render("● refunded")
	default:
		return StyleDim.Render("● " + string(s))
	}
}

// MilestoneStatus renders a colored milestone status badge.
func MilestoneStatus(s domain.MilestoneStatus) string {
	switch s {
	case domain.MilestoneReleased:
		return StyleGreen.Render("● released")
	case domain.MilestoneVerified:
		return StyleBlue.Render("● verified")
	case domain.MilestoneCompleted:
		return StyleYellow.Render("● completed")
	case domain.MilestonePending:
		return StyleDim.Render("● pending")
	case domain.MilestoneRejected:
		return StyleRed.Render("● rejected")
	default:
		return StyleDim.Render("● " + string(s))
	}
}

// Signatures renders a signature progress indicator such as "1/2".
func Signatures(current, required int) string {
	text := fmt.Sprintf("%d/%d", current, required)
	if current >= required {
		return StyleGreen.Render(text)
	}
	return StyleYellow.Render(text)
}

// Amount renders a ledger amount with the XLM suffix.
func Amount(amount string) string {
	return StyleBold.Render(amount + " XLM")
}

// Address renders a ledger address shortened to its ends, the way explorers
// display them.
func Address(addr string) string {
	if len(addr) <= 12 {
		return StyleBlue.Render(addr)
	}
	return StyleBlue.Render(addr[:5] + "…" + addr[len(addr)-5:])
}

// ShortHash renders the leading bytes of a transaction hash.
func ShortHash(hash string) string {
	if len(hash) > 8 {
		hash = hash[:8]
	}
	return hash
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
