package filtergraph

import (
	"fmt"
	"math"
	"strconv"
)

// Effect selects the visual composition variant for a segment.
type Effect string

const (
	// EffectGlowBars is the richest path: capped slow zoom, frequency bars
	// with a screen-blended glow, alpha-faded strip, optional masked pulse,
	// global fades, and text overlays.
	EffectGlowBars Effect = "glow_bars"
	// EffectZoom is the slow zoom alone, with fades and text.
	EffectZoom Effect = "zoom"
	// EffectWaves overlays a line waveform instead of frequency bars.
	EffectWaves Effect = "waves"
	// EffectPulse cycles hue and saturation over time.
	EffectPulse Effect = "pulse"
	// EffectStatic is the minimal always-available path: a non-animated
	// image hold with audio.
	EffectStatic Effect = "static"
)

// ParseEffect maps a configuration string to an effect. Unknown or empty
// values fall back to the static hold rather than failing.
func ParseEffect(s string) Effect {
	switch Effect(s) {
	case EffectGlowBars, EffectZoom, EffectWaves, EffectPulse, EffectStatic:
		return Effect(s)
	default:
		return EffectStatic
	}
}

// Params carries everything the builder needs to compose one segment.
// Input pad convention: audio is input 0, the looped background image input 1,
// and the optional looped mask input 2.
type Params struct {
	Width  int
	Height int
	FPS    float64

	// Duration is the clip length in seconds. Must be > 0.
	Duration float64

	Title   string
	Channel string

	Effect  Effect
	HasMask bool

	VizHeight    int
	ZoomRate     float64
	MaxZoom      float64
	FadeDuration float64
	TitleDisplay float64

	TitleSize   int
	TitleY      string
	ChannelSize int
	ChannelY    string

	// Vignette is the vignette angle expression ("PI/5"); empty disables it.
	Vignette string
}

// FrameCount derives the zoompan frame total from the clip duration.
func (p Params) FrameCount() int {
	return int(math.Round(p.Duration * p.FPS))
}

func (p Params) validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", p.Width, p.Height)
	}
	if p.FPS <= 0 {
		return fmt.Errorf("invalid fps %v", p.FPS)
	}
	if p.Duration <= 0 {
		return fmt.Errorf("invalid duration %v", p.Duration)
	}
	return nil
}

// Build constructs the composition graph for the selected effect. The result
// always validates: one video terminal, one audio terminal, labels wired in
// stage order.
func Build(p Params) (*Graph, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	g := &Graph{}
	switch p.Effect {
	case EffectGlowBars:
		buildGlowBars(g, p)
	case EffectZoom:
		buildZoom(g, p)
	case EffectWaves:
		buildWaves(g, p)
	case EffectPulse:
		buildPulse(g, p)
	default:
		buildStatic(g, p)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("built graph is invalid: %w", err)
	}
	return g, nil
}

// BuildFallback constructs the simpler known-good graph used for the one
// retry after a render failure: base zoom plus plain frequency bars, no glow,
// mask, fades, or text.
func BuildFallback(p Params) (*Graph, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	g := &Graph{}
	g.Add([]string{"0:a"}, []string{"a_viz", "a_out"}, filter("asplit", bare("2")))
	g.Add([]string{"1:v"}, []string{"bg"}, baseFilters(p, true)...)
	g.Add([]string{"a_viz"}, []string{"bars"}, showFreqs(p))
	g.Add([]string{"bg", "bars"}, []string{VideoOut},
		filter("overlay", bare("0"), bare(fmt.Sprintf("H-%d", p.VizHeight)), arg("format", "auto")))
	g.Add([]string{"a_out"}, []string{AudioOut}, filter("anull"))

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("fallback graph is invalid: %w", err)
	}
	return g, nil
}

func buildGlowBars(g *Graph, p Params) {
	g.Add([]string{"0:a"}, []string{"a_viz", "a_out"}, filter("asplit", bare("2")))

	baseOut := "bg"
	if p.HasMask {
		baseOut = "base"
	}
	g.Add([]string{"1:v"}, []string{baseOut}, baseFilters(p, true)...)

	if p.HasMask {
		g.Add([]string{"2:v"}, []string{"mask"},
			filter("scale", bare(strconv.Itoa(p.Width)), bare(strconv.Itoa(p.Height))),
			filter("format", bare("gray")))
		g.Add([]string{"base"}, []string{"base_bg", "base_fx"}, filter("split", bare("2")))
		g.Add([]string{"base_fx"}, []string{"fx_pulse"},
			maskedPulse(p),
			filter("gblur", arg("sigma", "3")))
		g.Add([]string{"base_bg", "fx_pulse", "mask"}, []string{"bg"}, filter("maskedmerge"))
	}

	// Frequency bars with a soft glow: blur one copy, screen-blend it back.
	g.Add([]string{"a_viz"}, []string{"bars"}, showFreqs(p))
	g.Add([]string{"bars"}, []string{"b_sharp", "b_soft"}, filter("split", bare("2")))
	g.Add([]string{"b_soft"}, []string{"b_blur"}, filter("gblur", arg("sigma", "6")))
	g.Add([]string{"b_blur", "b_sharp"}, []string{"b_glow"},
		filter("blend", arg("all_mode", "screen"), arg("all_opacity", "0.8")))

	// Vertical alpha ramp so the strip fades out toward its top edge.
	g.Add([]string{"b_glow"}, []string{"strip"},
		filter("format", bare("rgba")),
		filter("geq",
			arg("r", "'r(X,Y)'"),
			arg("g", "'g(X,Y)'"),
			arg("b", "'b(X,Y)'"),
			arg("a", fmt.Sprintf("'alpha(X,Y)*min(1,(H-Y)/%d*1.5)'", p.VizHeight))))

	g.Add([]string{"bg", "strip"}, []string{"comp"},
		filter("overlay", bare("0"), bare(fmt.Sprintf("H-%d", p.VizHeight)), arg("format", "auto")))

	finishVideo(g, p, "comp")
	finishAudio(g, p, "a_out")
}

func buildZoom(g *Graph, p Params) {
	g.Add([]string{"1:v"}, []string{"bg"}, baseFilters(p, true)...)
	finishVideo(g, p, "bg")
	finishAudio(g, p, "0:a")
}

func buildWaves(g *Graph, p Params) {
	g.Add([]string{"0:a"}, []string{"a_viz", "a_out"}, filter("asplit", bare("2")))
	g.Add([]string{"1:v"}, []string{"bg"}, baseFilters(p, false)...)
	g.Add([]string{"a_viz"}, []string{"waves"},
		filter("showwaves",
			arg("s", fmt.Sprintf("%dx%d", p.Width, p.VizHeight)),
			arg("mode", "line"),
			arg("colors", "cyan|violet"),
			arg("rate", fmtFloat(p.FPS))))
	g.Add([]string{"bg", "waves"}, []string{"comp"},
		filter("overlay", bare("0"), bare(fmt.Sprintf("H-%d", p.VizHeight)), arg("format", "auto")))
	finishVideo(g, p, "comp")
	finishAudio(g, p, "a_out")
}

func buildPulse(g *Graph, p Params) {
	filters := baseFilters(p, false)
	filters = append(filters, filter("hue",
		arg("h", "t*15"),
		arg("s", "1+0.3*sin(t*2)")))
	g.Add([]string{"1:v"}, []string{"bg"}, filters...)
	finishVideo(g, p, "bg")
	finishAudio(g, p, "0:a")
}

func buildStatic(g *Graph, p Params) {
	g.Add([]string{"1:v"}, []string{VideoOut}, scaleCover(p)...)
	g.Add([]string{"0:a"}, []string{AudioOut}, filter("anull"))
}

// scaleCover scales the source image to cover the target resolution and crops
// to exact dimensions.
func scaleCover(p Params) []Filter {
	return []Filter{
		filter("scale",
			bare(strconv.Itoa(p.Width)),
			bare(strconv.Itoa(p.Height)),
			arg("force_original_aspect_ratio", "increase")),
		filter("crop", bare(strconv.Itoa(p.Width)), bare(strconv.Itoa(p.Height))),
	}
}

// baseFilters builds the base transform: cover scale, crop, and when zoom is
// requested, a monotonically increasing frame-indexed zoom capped at MaxZoom.
func baseFilters(p Params, zoom bool) []Filter {
	filters := scaleCover(p)
	if zoom {
		filters = append(filters, filter("zoompan",
			arg("z", fmt.Sprintf("'min(1+%s*on,%s)'", fmtFloat(p.ZoomRate), fmtFloat(p.MaxZoom))),
			arg("x", "'iw/2-(iw/zoom/2)'"),
			arg("y", "'ih/2-(ih/zoom/2)'"),
			arg("d", strconv.Itoa(p.FrameCount())),
			arg("s", fmt.Sprintf("%dx%d", p.Width, p.Height)),
			arg("fps", fmtFloat(p.FPS))))
	}
	if p.Vignette != "" {
		filters = append(filters, filter("vignette", bare(p.Vignette)))
	}
	return filters
}

func showFreqs(p Params) Filter {
	return filter("showfreqs",
		arg("s", fmt.Sprintf("%dx%d", p.Width, p.VizHeight)),
		arg("mode", "bar"),
		arg("ascale", "sqrt"),
		arg("fscale", "log"),
		arg("colors", "0xFFAA00|0xFF6600|0xFF3300"),
		arg("win_size", "1024"))
}

// maskedPulse brightens and color-shifts the masked region with a periodic
// function of the frame index. Motion is visually periodic rather than
// audio-synchronized.
func maskedPulse(p Params) Filter {
	fps := fmtFloat(p.FPS)
	return filter("geq",
		arg("lum", fmt.Sprintf("'lum(X,Y)*(1.2+0.3*sin(N/%s*3))'", fps)),
		arg("cb", fmt.Sprintf("'cb(X,Y)+30*sin(N/%s*2.5)'", fps)),
		arg("cr", fmt.Sprintf("'cr(X,Y)+40*sin(N/%s*2)'", fps)))
}

// finishVideo applies the global fades and text overlays and produces the
// video terminal label.
func finishVideo(g *Graph, p Params, input string) {
	var filters []Filter

	fd := p.FadeDuration
	if fd > 0 {
		fadeOutStart := math.Max(0, p.Duration-fd)
		filters = append(filters,
			filter("fade", arg("t", "in"), arg("st", "0"), arg("d", fmtFloat(fd))),
			filter("fade", arg("t", "out"), arg("st", fmtFloat(fadeOutStart)), arg("d", fmtFloat(fd))))
	}

	if p.Title != "" {
		display := math.Min(p.TitleDisplay, p.Duration-1)
		if display > 0 {
			filters = append(filters, filter("drawtext",
				arg("text", "'"+EscapeText(p.Title)+"'"),
				arg("x", "(w-text_w)/2"),
				arg("y", p.TitleY),
				arg("fontsize", strconv.Itoa(p.TitleSize)),
				arg("fontcolor", "white"),
				arg("borderw", "3"),
				arg("bordercolor", "black@0.7"),
				arg("enable", fmt.Sprintf("'lt(t,%s)'", fmtFloat(display))),
				arg("alpha", fmt.Sprintf("'if(lt(t,%s),1,%s-t)'", fmtFloat(display-1), fmtFloat(display)))))
		}
	}

	if p.Channel != "" {
		filters = append(filters, filter("drawtext",
			arg("text", "'"+EscapeText(p.Channel)+"'"),
			arg("x", "(w-text_w)/2"),
			arg("y", p.ChannelY),
			arg("fontsize", strconv.Itoa(p.ChannelSize)),
			arg("fontcolor", "white@0.8"),
			arg("borderw", "2"),
			arg("bordercolor", "black@0.6")))
	}

	if len(filters) == 0 {
		filters = append(filters, filter("null"))
	}
	g.Add([]string{input}, []string{VideoOut}, filters...)
}

// finishAudio fades the audio in and out to match the video fades and
// produces the audio terminal label.
func finishAudio(g *Graph, p Params, input string) {
	fd := p.FadeDuration
	if fd <= 0 {
		g.Add([]string{input}, []string{AudioOut}, filter("anull"))
		return
	}
	fadeOutStart := math.Max(0, p.Duration-fd)
	g.Add([]string{input}, []string{AudioOut},
		filter("afade", arg("t", "in"), arg("st", "0"), arg("d", fmtFloat(fd))),
		filter("afade", arg("t", "out"), arg("st", fmtFloat(fadeOutStart)), arg("d", fmtFloat(fd))))
}

func filter(name string, args ...Arg) Filter {
	return Filter{Name: name, Args: args}
}

func arg(key, value string) Arg {
	return Arg{Key: key, Value: value}
}

func bare(value string) Arg {
	return Arg{Value: value}
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
