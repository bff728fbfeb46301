package main

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wippyai/chain-abi/chain"
	"github.com/wippyai/chain-abi/config"
	"github.com/wippyai/chain-abi/foreign"
)

type interactiveModel struct {
	err    error
	store  *config.Store
	rng    *rand.Rand
	value  chain.Chain
	head   foreign.Ptr
	dump   string
	status string
	input  textinput.Model
	colors palette
	stop   float64
}

func newInteractiveModel(store *config.Store, rng *rand.Rand, stop float64) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "x y z"
	ti.Prompt = "push: "
	ti.Width = 40
	ti.Focus()

	m := &interactiveModel{
		store:  store,
		rng:    rng,
		input:  ti,
		colors: newPalette(true),
		stop:   stop,
	}
	m.refresh()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			pt, err := parsePoint(m.input.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.input.SetValue("")
			m.replace(chain.Cons(pt.X, pt.Y, pt.Z, m.value), fmt.Sprintf("pushed %v", pt))
			return m, nil

		case "ctrl+p":
			if m.value.IsEmpty() {
				m.status = "chain is empty"
				return m, nil
			}
			m.replace(m.value.Tail(), "popped head")
			return m, nil

		case "ctrl+r":
			m.replace(chain.Random(m.rng, m.stop), "random chain")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// replace releases the current foreign chain and encodes next in its place.
func (m *interactiveModel) replace(next chain.Chain, status string) {
	if _, err := m.store.Marshaller.ReleaseChain(m.head); err != nil {
		m.err = err
		return
	}
	m.head = foreign.Null

	head, err := m.store.Marshaller.Encode(next)
	if err != nil {
		m.err = err
		return
	}
	m.value, m.head, m.status, m.err = next, head, status, nil
	m.refresh()
}

func (m *interactiveModel) refresh() {
	dump, err := renderDump(m.store.Heap, m.head, m.colors)
	if err != nil {
		m.err = err
	}
	m.dump = dump
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(m.colors.title.Render("Chain ABI"))
	b.WriteString(" ")
	b.WriteString(m.value.String())
	b.WriteString("\n\n")
	b.WriteString(m.dump)
	b.WriteString("\n")

	st := m.store.Heap.Stats()
	fmt.Fprintf(&b, "live %d  allocations %d  releases %d\n\n", m.store.Heap.Live(), st.Allocations, st.Releases)

	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(m.colors.err.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if m.status != "" {
		b.WriteString(m.status)
	}
	b.WriteString("\n\n")
	b.WriteString(m.colors.help.Render("enter push • ctrl+p pop • ctrl+r random • esc quit"))
	return b.String()
}

// parsePoint reads three floats separated by spaces or commas.
func parsePoint(s string) (chain.Point, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) != 3 {
		return chain.Point{}, fmt.Errorf("want three numbers, got %d", len(fields))
	}
	var v [3]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return chain.Point{}, fmt.Errorf("field %d: %w", i, err)
		}
		v[i] = x
	}
	return chain.Point{X: v[0], Y: v[1], Z: v[2]}, nil
}

func runInteractive(cfg *config.Config, seed int64, stop float64) error {
	ctx := context.Background()

	// logs would corrupt the alt screen
	store, err := cfg.Open(ctx, zap.NewNop())
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	m := newInteractiveModel(store, rand.New(rand.NewSource(seed)), stop)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
