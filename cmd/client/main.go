package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/a-random-oracle/Fly-Hard-sub000/internal/command"
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/config"
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/aircraft"
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/simulation"
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/ui"
	"github.com/a-random-oracle/Fly-Hard-sub000/pkg/types"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/labstack/gommon/log"
)

const (
	selectRadius = 15.0
	radioLines   = 8
)

var (
	colorWaypoint = color.RGBA{0, 255, 255, 255}
	colorBoundary = color.RGBA{0, 160, 0, 255}
	colorAirport  = color.RGBA{200, 200, 0, 255}
	colorAircraft = color.RGBA{255, 255, 255, 255}
	colorRoute    = color.RGBA{100, 100, 255, 255}
	colorWarning  = color.RGBA{255, 0, 0, 100}
)

type Camera struct {
	X, Y                 float64
	PanStartX, PanStartY int
	Scale                float64
}

type Game struct {
	width, height int
	camera        *Camera
	sim           *simulation.Simulation
	snap          simulation.Snapshot
	paused        bool

	selectedAircraftID types.AircraftID
	commandInput       *ui.TextInput
	status             string
}

func NewGame(cfg *config.Config, screenWidth, screenHeight int) (*Game, error) {
	sim, err := simulation.New(cfg)
	if err != nil {
		return nil, err
	}
	game := &Game{
		sim:    sim,
		camera: &Camera{Scale: 1.0},
		width:  screenWidth,
		height: screenHeight,
	}
	game.snap = sim.Snapshot()

	game.commandInput = ui.NewTextInput(10, screenHeight-48, screenWidth/2, 30, func(cmd string) {
		game.parseAndExecuteCommand(cmd)
	})
	return game, nil
}

func (g *Game) Update() error {
	dt := 1.0 / g.sim.TickRate

	g.handleInput(dt)
	g.commandInput.Update()

	if !g.paused {
		g.sim.Update(dt)
	}
	g.snap = g.sim.Snapshot()
	if _, ok := g.snap.Find(g.selectedAircraftID); !ok {
		g.selectedAircraftID = ""
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0, 0, 0, 255})

	g.drawAirspace(screen)
	for _, ac := range g.snap.Aircraft {
		g.drawAircraft(screen, ac)
	}
	g.drawUI(screen)
	ebitenutil.DebugPrint(screen, "FPS: "+strconv.FormatFloat(ebiten.ActualFPS(), 'f', 2, 64))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.width, g.height
}

func (g *Game) handleInput(dt float64) {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if g.commandInput.IsClicked(x, y) {
			g.commandInput.IsActive = true
			return
		}
		g.commandInput.IsActive = false
		g.handleClick(g.screenToWorld(float64(x), float64(y)))
	}

	if !g.commandInput.IsActive {
		g.handleKeys(dt)
	}

	_, wy := ebiten.Wheel()
	if wy != 0 {
		cursorX, cursorY := ebiten.CursorPosition()
		before := g.screenToWorld(float64(cursorX), float64(cursorY))

		scale := g.camera.Scale
		if wy > 0 {
			scale *= 1.1
		} else {
			scale /= 1.1
		}
		g.camera.Scale = types.Clamp(scale, 0.5, 3.0)

		after := g.screenToWorld(float64(cursorX), float64(cursorY))
		g.camera.X -= after.X - before.X
		g.camera.Y += after.Y - before.Y
	}

	// Right mouse button for pan
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		dx, dy := ebiten.CursorPosition()
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
			g.camera.PanStartX, g.camera.PanStartY = dx, dy
		} else {
			g.camera.X -= float64(dx-g.camera.PanStartX) / g.camera.Scale
			g.camera.Y -= float64(dy-g.camera.PanStartY) / g.camera.Scale
			g.camera.PanStartX, g.camera.PanStartY = dx, dy
		}
	}
}

// handleClick selects the nearest aircraft under the cursor. A click on an
// empty departures zone releases that airport's next departure.
func (g *Game) handleClick(p types.Vec3) {
	g.selectedAircraftID = ""
	best := selectRadius / g.camera.Scale
	for _, ac := range g.snap.Aircraft {
		if d := math.Sqrt(ac.Position.HorizontalDistanceSquared(p)); d < best {
			best = d
			g.selectedAircraftID = ac.ID
		}
	}
	if g.selectedAircraftID != "" {
		log.Debugf("Selected aircraft: %s", g.selectedAircraftID)
		return
	}

	for _, ap := range g.snap.Airports {
		if ap.DeparturesZone.Contains(p) && len(ap.Hangar) > 0 {
			id, err := g.sim.TakeOff(ap.Name, p)
			g.report(id, "takeoff", err)
			return
		}
	}
}

func (g *Game) handleKeys(dt float64) {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) || inpututil.IsKeyJustPressed(ebiten.KeySlash) {
		g.commandInput.IsActive = true
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}

	id := g.selectedAircraftID
	if id == "" {
		return
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.report(id, "manual control", g.sim.ToggleManualControl(id))
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.report(id, "land", g.sim.Land(id))
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.report(id, "climb", g.sim.SetAltitudeState(id, aircraft.CLIMB))
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.report(id, "descend", g.sim.SetAltitudeState(id, aircraft.FALL))
	}

	// Turns are applied for as long as the key is held.
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.sim.TurnLeft(id, dt)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.sim.TurnRight(id, dt)
	}
}

func (g *Game) report(id types.AircraftID, what string, err error) {
	switch {
	case err == nil:
		g.status = fmt.Sprintf("%s: %s", id, what)
	case errors.Is(err, simulation.ErrRoundOver):
		g.status = "Round over"
	default:
		g.status = err.Error()
		log.Debugf("%s %s: %v", id, what, err)
	}
}

// The world has +Y up; the screen has +Y down.
func (g *Game) screenToWorld(sx, sy float64) types.Vec3 {
	wx := sx/g.camera.Scale + g.camera.X
	wy := float64(g.height) - (sy/g.camera.Scale + g.camera.Y)
	return types.NewVec3(wx, wy, 0)
}

func (g *Game) worldToScreen(p types.Vec3) (sx, sy float32) {
	x := (p.X - g.camera.X) * g.camera.Scale
	y := (float64(g.height) - p.Y - g.camera.Y) * g.camera.Scale
	return float32(x), float32(y)
}

func (g *Game) drawAircraft(screen *ebiten.Image, ac simulation.AircraftView) {
	sx, sy := g.worldToScreen(ac.Position)
	scale := float32(g.camera.Scale)

	if g.selectedAircraftID == ac.ID {
		g.drawRoute(screen, ac)
		vector.StrokeRect(screen, sx-10*scale, sy-10*scale, 20*scale, 20*scale, 1, color.White, false)
	}

	vector.DrawFilledCircle(screen, sx, sy, 4*scale, colorAircraft, false)

	if dir, ok := ac.Velocity.Normalise(); ok {
		ex, ey := g.worldToScreen(ac.Position.Add(dir.ScaleBy(30)))
		vector.StrokeLine(screen, sx, sy, ex, ey, 1, colorRoute, false)
	}

	if ac.Violating || ac.Collided {
		r := float32(ac.Separation / 2)
		vector.DrawFilledCircle(screen, sx, sy, r*scale, colorWarning, false)
	}

	tagText := fmt.Sprintf("%s\nALT:%.0f %s\nHDG:%03.0f\nSTS:%s",
		ac.ID, ac.Position.Z, aircraft.AltitudeStateStringMap[ac.AltitudeState],
		command.BearingToCompass(ac.Bearing), aircraft.StateStringMap[ac.State])
	ebitenutil.DebugPrintAt(screen, tagText, int(sx)+10, int(sy)-20)
}

// drawRoute draws the remaining legs of the selected aircraft's route.
func (g *Game) drawRoute(screen *ebiten.Image, ac simulation.AircraftView) {
	px, py := g.worldToScreen(ac.Position)
	for i := ac.RouteStage; i < len(ac.Route); i++ {
		nx, ny := g.worldToScreen(ac.Route[i].Location)
		vector.StrokeLine(screen, px, py, nx, ny, 1, colorRoute, false)
		ebitenutil.DebugPrintAt(screen, strconv.Itoa(i), int(nx)-12, int(ny)-12)
		px, py = nx, ny
	}
}

func (g *Game) drawAirspace(screen *ebiten.Image) {
	scale := float32(g.camera.Scale)
	for _, wp := range g.snap.Waypoints {
		sx, sy := g.worldToScreen(wp.Location)
		if wp.Boundary {
			vector.DrawFilledRect(screen, sx-3*scale, sy-3*scale, 6*scale, 6*scale, colorBoundary, false)
		} else {
			vector.DrawFilledCircle(screen, sx, sy, 3*scale, colorWaypoint, false)
		}
		ebitenutil.DebugPrintAt(screen, wp.Name, int(sx)+5, int(sy)+5)
	}

	for _, ap := range g.snap.Airports {
		z := ap.ArrivalsZone
		// Rect corners are stored bottom-left in world space.
		zx, zy := g.worldToScreen(types.NewVec3(z.X, z.Y+z.Height, 0))
		w, h := float32(z.Width)*scale, float32(z.Height)*scale
		if ap.Active {
			vector.DrawFilledRect(screen, zx, zy, w, h, color.RGBA{60, 60, 0, 255}, false)
		}
		vector.StrokeRect(screen, zx, zy, w, h, 1, colorAirport, false)

		sx, sy := g.worldToScreen(ap.Location)
		vector.DrawFilledCircle(screen, sx, sy, 5*scale, colorAirport, false)
		label := ap.Name
		if len(ap.Hangar) > 0 {
			label = fmt.Sprintf("%s [%d] %.0fs", ap.Name, len(ap.Hangar), ap.LongestWait)
		}
		ebitenutil.DebugPrintAt(screen, label, int(sx)+7, int(sy)+7)
	}
}

func (g *Game) drawUI(screen *ebiten.Image) {
	g.commandInput.Draw(screen)

	selectedAcText := "Selected: None"
	if g.selectedAircraftID != "" {
		selectedAcText = "Selected: " + string(g.selectedAircraftID)
	}
	ebitenutil.DebugPrintAt(screen, selectedAcText, 10, g.height-68)
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, g.width/2+20, g.height-40)
	}

	y := 20
	for _, p := range g.snap.Players {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("P%d score %d  handoffs %d  landings %d  missed %d",
			p.Index+1, p.TotalScore, p.HandOffs, p.Landings, p.MissedHandoffs), 10, y)
		y += 16
	}

	radio := g.snap.Radio
	if len(radio) > radioLines {
		radio = radio[len(radio)-radioLines:]
	}
	for i, msg := range radio {
		line := fmt.Sprintf("%6.0fs %s: %s", msg.Time, msg.Callsign, msg.Message)
		if msg.IsUrgent {
			line = "! " + line
		}
		ebitenutil.DebugPrintAt(screen, line, g.width-420, 20+i*16)
	}

	if g.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", g.width/2-20, 20)
	}
	if g.snap.RoundOver {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("ROUND OVER: %s collided with %s",
			g.snap.Collided[0], g.snap.Collided[1]), g.width/2-120, g.height/2)
	}
}

func (g *Game) parseAndExecuteCommand(line string) {
	cmd, err := command.Parse(line, g.selectedAircraftID)
	if err != nil {
		g.status = err.Error()
		log.Debugf("Invalid command %q: %v", line, err)
		return
	}
	id, err := command.Execute(g.sim, cmd)
	g.report(id, command.KindStringMap[cmd.Kind], err)
	if err == nil {
		log.Infof("Issued %s to %s", command.KindStringMap[cmd.Kind], id)
	}
}

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	flag.Parse()

	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	lvl, _ := cfg.Logging.Lvl()
	log.SetLevel(lvl)

	width, height := int(cfg.Airspace.Width), int(cfg.Airspace.Height)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("Fly Hard")
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(int(math.Round(cfg.Simulation.TickRate)))

	game, err := NewGame(cfg, width, height)
	if err != nil {
		log.Fatal(err)
	}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
