package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

func testTrajectory(t *testing.T, n int) *dynamo.Trajectory {
	t.Helper()
	states := make([]dynamo.State, n)
	for i := range states {
		states[i] = physics.NewState(1-float64(i)/float64(n), 0.1*float64(i), 0, 0)
	}
	tr, err := dynamo.NewTrajectory(dynamo.Linspace(0, 1, n), states, dynamo.Stats{})
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func unitSprings(t *testing.T) *physics.CoupledSprings {
	t.Helper()
	cs, err := physics.NewCoupledSprings(physics.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	return cs
}

func TestCanvas_SetAndClear(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][1])
	}

	c.Set(-1, 0)
	c.Set(100, 100)

	c.Clear()
	if c.String() != "\u2800\u2800\n" {
		t.Errorf("expected blank canvas, got %q", c.String())
	}
}

func TestCanvas_DrawSpringStaysBetweenEnds(t *testing.T) {
	c := NewCanvas(20, 4)
	c.DrawSpring(4, 30, 8, 4, 3)

	for row := range c.Grid {
		for col, r := range c.Grid[row] {
			if r != 0x2800 && (col < 2 || col > 15) {
				t.Errorf("spring drawn outside its ends at cell (%d, %d)", row, col)
			}
		}
	}
}

func TestScene_Positions(t *testing.T) {
	s := NewScene(60, 16)
	r1, r2 := s.Positions(physics.NewState(0, 0, 0, 0))
	if r1 >= r2 {
		t.Fatalf("mass 1 rest %d should be left of mass 2 rest %d", r1, r2)
	}

	p1, p2 := s.Positions(physics.NewState(1, -1, 0, 0))
	if p1 <= r1 || p2 >= r2 {
		t.Errorf("displacements not applied: %d, %d", p1, p2)
	}
}

func TestPlots(t *testing.T) {
	tr := testTrajectory(t, 50)
	size := PlotSize{Width: 40, Height: 6}

	tests := []struct {
		name string
		out  string
		want string
	}{
		{"displacements", PlotDisplacements(tr, size), "x1 (red), x2 (blue)"},
		{"separation", PlotSeparation(tr, size), "x1 - x2"},
		{"energy", PlotEnergy(unitSprings(t), tr, size), "energy"},
		{"spectrum", PlotSpectrum(tr.Series(physics.X1), size), "power spectrum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.out, tt.want) {
				t.Errorf("expected caption %q in:\n%s", tt.want, tt.out)
			}
		})
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, p Player, msg tea.Msg) Player {
	t.Helper()
	m, _ := p.Update(msg)
	return m.(Player)
}

func TestPlayer_Playback(t *testing.T) {
	p := NewPlayer(testTrajectory(t, 3), unitSprings(t), "test")
	if !p.Running() || p.Frame() != 0 {
		t.Fatal("player should start running at frame 0")
	}

	for i := 0; i < 5; i++ {
		p = update(t, p, tickMsg{})
	}
	if p.Frame() != 2 || p.Running() {
		t.Errorf("expected to stop on last frame, got frame %d running %v", p.Frame(), p.Running())
	}

	p = update(t, p, key(" "))
	if p.Frame() != 0 || !p.Running() {
		t.Errorf("space at the end should replay from the start")
	}
}

func TestPlayer_Keys(t *testing.T) {
	p := NewPlayer(testTrajectory(t, 10), unitSprings(t), "test")

	p = update(t, p, tickMsg{})
	p = update(t, p, tickMsg{})
	p = update(t, p, key(" "))
	if p.Running() {
		t.Error("space should pause")
	}
	paused := p.Frame()
	p = update(t, p, tickMsg{})
	if p.Frame() != paused {
		t.Error("paused player must not advance")
	}

	p = update(t, p, key("]"))
	if p.Frame() != paused+1 {
		t.Errorf("expected step forward to %d, got %d", paused+1, p.Frame())
	}

	p = update(t, p, key("r"))
	if p.Frame() != 0 || !p.Running() {
		t.Error("r should restart playback")
	}

	before := p.theme.Name
	p = update(t, p, key("t"))
	if p.theme.Name == before {
		t.Error("t should change theme")
	}

	if _, cmd := p.Update(key("q")); cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestPlayer_View(t *testing.T) {
	p := NewPlayer(testTrajectory(t, 10), unitSprings(t), "coupled springs")
	out := p.View()
	for _, want := range []string{"COUPLED SPRINGS", "PLAYING", "energy"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
