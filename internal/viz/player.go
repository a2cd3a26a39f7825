package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/physics"
)

const (
	// FrameInterval is the delay between two displayed samples.
	FrameInterval = 20 * time.Millisecond

	width  = 60
	height = 16
)

type tickMsg time.Time

// Player replays a finished trajectory one sample per frame. It never touches
// the model or the solver.
type Player struct {
	tr      *dynamo.Trajectory
	energy  []float64
	title   string
	frame   int
	running bool
	scene   Scene
	canvas  *Canvas
	theme   Theme
	st      styles
}

// NewPlayer prepares playback of tr. h is used once to precompute the energy
// series shown next to the animation.
func NewPlayer(tr *dynamo.Trajectory, h dynamo.Hamiltonian, title string) Player {
	theme := Themes[0]
	return Player{
		tr:      tr,
		energy:  metrics.EnergySeries(h, tr),
		title:   title,
		running: true,
		scene:   NewScene(width, height),
		canvas:  NewCanvas(width, height),
		theme:   theme,
		st:      newStyles(theme),
	}
}

// Play runs the player full screen until the user quits.
func Play(tr *dynamo.Trajectory, h dynamo.Hamiltonian, title string) error {
	_, err := tea.NewProgram(NewPlayer(tr, h, title), tea.WithAltScreen()).Run()
	return err
}

func (p Player) Frame() int    { return p.frame }
func (p Player) Running() bool { return p.running }

func tick() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (p Player) Init() tea.Cmd {
	return tick()
}

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return p, tea.Quit
		case " ":
			if !p.running && p.atEnd() {
				p.frame = 0
			}
			p.running = !p.running
		case "r":
			p.frame = 0
			p.running = true
		case "t":
			p.theme = nextTheme(p.theme.Name)
			p.st = newStyles(p.theme)
		case "[", "left":
			p.running = false
			p.frame = max(p.frame-1, 0)
		case "]", "right":
			p.running = false
			p.frame = min(p.frame+1, p.tr.Len()-1)
		}
		return p, nil
	case tickMsg:
		if p.running {
			p.advance()
		}
		return p, tick()
	}
	return p, nil
}

func (p *Player) advance() {
	if p.atEnd() {
		p.running = false
		return
	}
	p.frame++
}

func (p Player) atEnd() bool { return p.frame >= p.tr.Len()-1 }

func (p Player) View() string {
	x := p.tr.At(p.frame)
	p.scene.Draw(p.canvas, x)
	canvasView := p.st.canvas.Render(p.canvas.String())

	var s strings.Builder
	s.WriteString(p.st.header.Render(strings.ToUpper(p.title)) + "\n")

	status := p.st.running.Render("PLAYING")
	switch {
	case !p.running && p.atEnd():
		status = p.st.paused.Render("FINISHED")
	case !p.running:
		status = p.st.paused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(p.st.label.Render(label) + p.st.value.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%.3f s", p.tr.Time(p.frame)))
	row("x1", fmt.Sprintf("%+.4f", x[physics.X1]))
	row("x2", fmt.Sprintf("%+.4f", x[physics.X2]))
	row("v1", fmt.Sprintf("%+.4f", x[physics.V1]))
	row("v2", fmt.Sprintf("%+.4f", x[physics.V2]))
	row("energy", fmt.Sprintf("%.6f", p.energy[p.frame]))

	s.WriteString("\n" + p.st.Sparkline(p.energy[:p.frame+1], 30) + "\n")
	progress := float64(p.frame) / float64(max(p.tr.Len()-1, 1))
	s.WriteString(p.st.ProgressBar(progress, 30) + "\n")

	s.WriteString(p.st.help.Render("SP:Pause R:Restart Q:Quit\n[ ]:Step T:Theme (" + p.theme.Name + ")"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, p.st.panel.Render(s.String()))
}
