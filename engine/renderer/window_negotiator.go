package renderer

import (
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/caps"
	"github.com/Carmen-Shannon/oxy-render/engine/window"
)

// depthBitCandidates is the order in which depth-buffer precisions are tried per MSAA level.
var depthBitCandidates = [...]int{24, 32, 16}

// contextRequest describes the graphics context attached to a window.
type contextRequest struct {
	version caps.Version
	core    bool
	debug   bool
}

// windowRequest describes the main window before the MSAA and depth fallback search.
type windowRequest struct {
	title      string
	rect       common.Rect
	fullscreen bool
	borderless bool

	minimizeOnFocusLoss bool

	msaa    int
	api     window.ClientAPI
	context contextRequest
}

func (r windowRequest) options(msaa, depth int) []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(r.title),
		window.WithPosition(r.rect.X, r.rect.Y),
		window.WithWidth(r.rect.W),
		window.WithHeight(r.rect.H),
		window.WithMinWidth(minWindowRes),
		window.WithMinHeight(minWindowRes),
		window.WithFullscreen(r.fullscreen, r.borderless),
		window.WithMinimizeOnFocusLoss(r.minimizeOnFocusLoss),
		window.WithClientAPI(r.api),
		window.WithMultisampling(msaa),
		window.WithDepthBits(depth),
		window.WithContextVersion(r.context.version.Major, r.context.version.Minor, r.context.core),
		window.WithDebugContext(r.context.debug),
	}
}

// msaaLadder lists the MSAA levels tried for a requested level m:
// m, m/2, m/4, m/8, m/16, m/32, then 0, stopping at the first repeated value.
func msaaLadder(m int) []int {
	ladder := []int{m}
	for _, div := range [...]int{2, 4, 8, 16, 32} {
		next := m / div
		if next == ladder[len(ladder)-1] {
			return ladder
		}
		ladder = append(ladder, next)
	}
	if ladder[len(ladder)-1] != 0 {
		ladder = append(ladder, 0)
	}
	return ladder
}

// negotiateWindow creates the main window, lowering MSAA and depth precision until
// the platform accepts the combination.
//
// Parameters:
//   - platform: the windowing platform
//   - req: the window description; req.msaa is the highest level tried
//
// Returns:
//   - window.Window: the created window, nil on failure
//   - int: the MSAA level that succeeded
//   - int: the depth-buffer bits that succeeded
//   - error: an UnsupportedError if no combination works
func negotiateWindow(platform window.Platform, req windowRequest) (window.Window, int, int, error) {
	if req.msaa > 0 {
		req.msaa = common.MakeEven(req.msaa)
		if _, ok := os.LookupEnv("LIBGL_ALWAYS_SOFTWARE"); ok {
			log.Printf("[Renderer] warning: MSAALevel > 0 and LIBGL_ALWAYS_SOFTWARE set, this will very likely crash!")
		}
	}

	for _, msaa := range msaaLadder(req.msaa) {
		for _, depth := range depthBitCandidates {
			win, err := platform.CreateWindow(req.options(msaa, depth)...)
			if err != nil {
				log.Printf("[Renderer] warning: error \"%v\" using %dx anti-aliasing and %d-bit depth-buffer for main window", err, msaa, depth)
				continue
			}

			log.Printf("[Renderer] using %dx anti-aliasing and %d-bit depth-buffer (PF=\"%s\") for main window", msaa, depth, win.PixelFormatName())
			return win, msaa, depth, nil
		}
	}

	return nil, 0, 0, unsupported("failed to create main window with any anti-aliasing level or depth-buffer precision, aborting")
}
