package api

import (
	"fmt"
	"image/color"
	"log"
	"net/http"
	"sync"
	"time"

	"boss-brawl/internal/encounter"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
)

// Debug frame size in pixels
const (
	DefaultFrameWidth  = 960
	DefaultFrameHeight = 540
)

// FrameSource provides the state a debug frame is drawn from
type FrameSource interface {
	Snapshot() encounter.Snapshot
}

var (
	frameBackground = color.RGBA{12, 12, 28, 255}
	frameGround     = color.RGBA{70, 62, 58, 255}
	framePit        = color.RGBA{120, 30, 30, 255}
	framePlayer     = color.RGBA{70, 150, 255, 255}
	frameBoss       = color.RGBA{220, 60, 60, 255}
	frameBraced     = color.RGBA{255, 149, 0, 255}
	frameStunned    = color.RGBA{150, 150, 170, 255}
	frameVelocity   = color.RGBA{83, 255, 69, 255}
)

var (
	frameFontOnce sync.Once
	frameFont     *opentype.Font
)

// newFrameFace returns a fresh face over the embedded mono font, or nil to
// keep gg's built-in face. Faces are not safe for concurrent use, so each
// render gets its own.
func newFrameFace() font.Face {
	frameFontOnce.Do(func() {
		parsed, err := opentype.Parse(gomono.TTF)
		if err != nil {
			log.Printf("⚠️ Failed to parse frame font: %v", err)
			return
		}
		frameFont = parsed
	})
	if frameFont == nil {
		return nil
	}

	face, err := opentype.NewFace(frameFont, &opentype.FaceOptions{
		Size:    13,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("⚠️ Failed to create frame font face: %v", err)
		return nil
	}
	return face
}

// frameView maps world metres to pixels: x centred, ground line at 60% height
type frameView struct {
	ppm     float64
	originX float64
	originY float64
}

func newFrameView(snap encounter.Snapshot, width, height int) frameView {
	arena := snap.ArenaWidth
	if arena <= 0 {
		arena = 16
	}
	return frameView{
		ppm:     float64(width) / (arena + 4),
		originX: float64(width) / 2,
		originY: float64(height) * 0.6,
	}
}

func (v frameView) point(x, y float64) (float64, float64) {
	return v.originX + x*v.ppm, v.originY - y*v.ppm
}

// RenderFrame draws one snapshot: arena, pit line, both agents with their
// velocity vectors and a status line
func RenderFrame(snap encounter.Snapshot, width, height int) *gg.Context {
	dc := gg.NewContext(width, height)
	if face := newFrameFace(); face != nil {
		defer face.Close()
		dc.SetFontFace(face)
	}
	view := newFrameView(snap, width, height)

	dc.SetColor(frameBackground)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	// Platform top sits at y = 0
	gx, gy := view.point(-snap.ArenaWidth/2, 0)
	dc.SetColor(frameGround)
	dc.DrawRectangle(gx, gy, snap.ArenaWidth*view.ppm, view.ppm)
	dc.Fill()

	_, py := view.point(0, snap.FallY)
	dc.SetColor(framePit)
	dc.SetLineWidth(2)
	dc.DrawLine(0, py, float64(width), py)
	dc.Stroke()

	drawAgent(dc, view, snap.Player, framePlayer)
	bossColor := frameBoss
	if snap.Counter.Braced {
		bossColor = frameBraced
	}
	drawAgent(dc, view, snap.Boss, bossColor)

	dc.SetColor(color.White)
	dc.DrawString(fmt.Sprintf("tick %d  t=%.2fs  x%.2f  %s  lives %d  counter %s  %s",
		snap.TickNumber, snap.SimTime, snap.TimeScale, snap.Profile, snap.Lives, snap.Counter.State, snap.Outcome), 10, 20)
	dc.DrawString(fmt.Sprintf("shoves %d  boss shoves %d  parries %d  counters %d  falls %d",
		snap.Stats.Shoves, snap.Stats.BossShoves, snap.Counter.Parries, snap.Counter.Counters, snap.Stats.Falls), 10, 38)

	return dc
}

func drawAgent(dc *gg.Context, view frameView, a encounter.AgentSnapshot, fill color.Color) {
	if a.Stunned {
		fill = frameStunned
	}
	x, y := view.point(a.X-a.Width/2, a.Y+a.Height/2)
	w, h := a.Width*view.ppm, a.Height*view.ppm

	dc.SetColor(fill)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()

	dc.SetColor(color.White)
	dc.SetLineWidth(2)
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()

	// Velocity at a tenth of a second ahead
	cx, cy := view.point(a.X, a.Y)
	vx, vy := view.point(a.X+a.VX*0.1, a.Y+a.VY*0.1)
	dc.SetColor(frameVelocity)
	dc.DrawLine(cx, cy, vx, vy)
	dc.Stroke()

	dc.SetColor(color.White)
	dc.DrawStringAnchored(fmt.Sprintf("%s %.1fkg", a.Role, a.Mass), cx, y-10, 0.5, 0.5)
}

// FrameHandler serves the latest snapshot as a PNG
func FrameHandler(src FrameSource, width, height int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		dc := RenderFrame(src.Snapshot(), width, height)
		RecordRender(time.Since(start))

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		if err := dc.EncodePNG(w); err != nil {
			log.Printf("⚠️ Frame encode failed: %v", err)
		}
	})
}
