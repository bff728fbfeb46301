package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/chain-abi/foreign"
)

type palette struct {
	title lipgloss.Style
	addr  lipgloss.Style
	field lipgloss.Style
	next  lipgloss.Style
	bytes lipgloss.Style
	err   lipgloss.Style
	help  lipgloss.Style
}

func newPalette(styled bool) palette {
	if !styled {
		plain := lipgloss.NewStyle()
		return palette{title: plain, addr: plain, field: plain, next: plain, bytes: plain, err: plain, help: plain}
	}
	return palette{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		addr:  lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		field: lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		next:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		bytes: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		err:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		help:  lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

// renderDump walks the foreign chain at head and prints one block per node.
func renderDump(heap *foreign.Heap, head foreign.Ptr, p palette) (string, error) {
	var b strings.Builder
	b.WriteString(p.title.Render("Foreign chain"))
	b.WriteString(" head=")
	b.WriteString(p.addr.Render(head.String()))
	b.WriteString("\n")

	limit := heap.Live()
	for i, cur := 0, head; !cur.IsNull(); i++ {
		if i >= limit {
			return b.String(), fmt.Errorf("chain at %v longer than the %d live records", head, limit)
		}
		raw, err := heap.RawAt(cur)
		if err != nil {
			return b.String(), err
		}
		r, err := heap.ReadAt(cur)
		if err != nil {
			return b.String(), err
		}

		fmt.Fprintf(&b, "%s  x=%s y=%s z=%s  next=%s\n",
			p.addr.Render(cur.String()),
			p.field.Render(formatFloat(r.X)),
			p.field.Render(formatFloat(r.Y)),
			p.field.Render(formatFloat(r.Z)),
			p.next.Render(r.Next.String()))
		for off := 0; off < len(raw); off += 16 {
			end := min(off+16, len(raw))
			fmt.Fprintf(&b, "  +%02d  %s\n", off, p.bytes.Render(hex.EncodeToString(raw[off:end])))
		}
		cur = r.Next
	}
	return b.String(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
