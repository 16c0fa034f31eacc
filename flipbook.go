package flipbook

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/flavioheleno/flipbook/image1bit"
	"github.com/flavioheleno/flipbook/imgdec"
	"github.com/flavioheleno/flipbook/resource"
)

// DefaultFirst is the ID of the first image; lower IDs belong to other
// resources.
const DefaultFirst resource.ID = 3

// DefaultDelay is the time between frames.
const DefaultDelay = 125 * time.Millisecond

// Scheduler runs f once, d from now, on the caller's event loop.
// AfterFunc must be safe to call from any goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// Surface is the display the frames are shown on.
type Surface interface {
	Install(bm *image1bit.Bitmap) error
	SetPlacement(r image.Rectangle)
	MarkDirty() error
}

// Indicator is switched on while the animation plays (e.g. a backlight).
type Indicator interface {
	Light(on bool) error
}

// Opts is the configuration for an Animator.
type Opts struct {
	First resource.ID   // ID of the first image (default: DefaultFirst)
	Delay time.Duration // Time between frames (default: DefaultDelay)

	// Geometry of the conversion (default: image1bit.Pebble). Alloc, if
	// set, overrides Converter.Alloc.
	Converter *image1bit.Converter
	Alloc     image1bit.Allocator

	Decode func([]byte) (*image1bit.Raster, error) // default: imgdec.Decode
	Light  Indicator                               // optional
	Logger *slog.Logger                            // default: slog.Default()
}

// State is a snapshot of the animation.
type State struct {
	Index   resource.ID
	Length  int
	Playing bool
}

// Animator plays the image sequence once per gesture.
//
// Except for Tap, methods must be called from the scheduler's loop. Tap may
// be called from any goroutine: it only claims the Playing state and
// schedules the cycle, so of concurrent taps only the first starts one.
type Animator struct {
	store   resource.Store
	surface Surface
	sched   Scheduler
	conv    image1bit.Converter
	decode  func([]byte) (*image1bit.Raster, error)
	light   Indicator
	log     *slog.Logger
	delay   time.Duration

	frames *FrameStore

	first   resource.ID
	length  int
	index   resource.ID
	playing atomic.Bool
	closed  atomic.Bool
}

// New creates an Animator and discovers how many images store holds.
//
// opts can be nil to use defaults.
func New(store resource.Store, surface Surface, sched Scheduler, opts *Opts) (*Animator, error) {
	if store == nil || surface == nil || sched == nil {
		return nil, errors.New("flipbook: store, surface and scheduler are required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	if opts.Delay < 0 {
		return nil, errors.New("flipbook: delay must not be negative")
	}

	a := &Animator{
		store:   store,
		surface: surface,
		sched:   sched,
		conv:    image1bit.Pebble,
		decode:  opts.Decode,
		light:   opts.Light,
		log:     opts.Logger,
		delay:   opts.Delay,
		first:   opts.First,
	}
	if opts.Converter != nil {
		a.conv = *opts.Converter
	}
	if opts.Alloc != nil {
		a.conv.Alloc = opts.Alloc
	}
	if a.decode == nil {
		a.decode = imgdec.Decode
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	if a.delay == 0 {
		a.delay = DefaultDelay
	}
	if a.first == 0 {
		a.first = DefaultFirst
	}
	a.frames = NewFrameStore(a.conv.Alloc)

	a.length = resource.Discover(store, a.first)
	if a.length == 0 {
		return nil, fmt.Errorf("flipbook: no images found from id %d", a.first)
	}
	a.index = a.first
	a.log.Info("flipbook: images discovered", "first", a.first, "count", a.length)

	return a, nil
}

// Start shows the first image and plays one cycle, as at power-on.
func (a *Animator) Start() {
	if a.closed.Load() {
		return
	}
	a.show(a.index)
	if !a.playing.CompareAndSwap(false, true) {
		return
	}
	a.setLight(true)
	a.sched.AfterFunc(a.delay, a.step)
}

// Tap starts a cycle unless one is already playing or the Animator is
// closed. The first frame is shown from the scheduler's loop.
func (a *Animator) Tap() {
	if a.closed.Load() {
		return
	}
	if !a.playing.CompareAndSwap(false, true) {
		return
	}
	a.sched.AfterFunc(0, a.begin)
}

// begin runs on the loop for a cycle started by Tap.
func (a *Animator) begin() {
	if a.closed.Load() {
		a.playing.Store(false)
		return
	}
	a.setLight(true)
	a.step()
}

// step shows the next frame and schedules the following one until the
// sequence wraps back to the first image.
func (a *Animator) step() {
	if a.closed.Load() {
		a.index = a.first
		a.setLight(false)
		a.playing.Store(false)
		return
	}
	a.advance()
	a.show(a.index)

	if a.index != a.first {
		a.sched.AfterFunc(a.delay, a.step)
		return
	}
	a.setLight(false)
	a.playing.Store(false)
}

func (a *Animator) advance() {
	if a.index >= a.first+resource.ID(a.length-1) {
		a.index = a.first
		return
	}
	a.index++
}

// show loads, converts and displays image id. Failures are logged and the
// previous frame stays on screen.
func (a *Animator) show(id resource.ID) {
	data, err := resource.Read(a.store, id)
	if err != nil {
		a.log.Warn("flipbook: frame skipped", "id", id, "err", err)
		return
	}
	raster, err := a.decode(data)
	if err != nil {
		a.log.Warn("flipbook: frame skipped", "id", id, "err", err)
		return
	}
	err = a.frames.Replace(func() (*image1bit.Bitmap, image.Rectangle, error) {
		return a.conv.Convert(raster)
	})
	if err != nil {
		a.log.Warn("flipbook: frame skipped", "id", id, "err", err)
		return
	}

	bm, place := a.frames.Current()
	if err := a.surface.Install(bm); err != nil {
		a.log.Warn("flipbook: install failed", "id", id, "err", err)
		return
	}
	a.surface.SetPlacement(place)
	if err := a.surface.MarkDirty(); err != nil {
		a.log.Warn("flipbook: redraw failed", "id", id, "err", err)
	}
}

func (a *Animator) setLight(on bool) {
	if a.light == nil {
		return
	}
	if err := a.light.Light(on); err != nil {
		a.log.Warn("flipbook: indicator", "on", on, "err", err)
	}
}

// State returns a snapshot of the animation state.
func (a *Animator) State() State {
	return State{
		Index:   a.index,
		Length:  a.length,
		Playing: a.playing.Load(),
	}
}

// Frame returns the resident bitmap and its placement.
func (a *Animator) Frame() (*image1bit.Bitmap, image.Rectangle) {
	return a.frames.Current()
}

// Close releases the resident frame and switches the indicator off.
// A frame already scheduled still fires but shows nothing, and later
// Start and Tap calls are ignored.
func (a *Animator) Close() {
	a.closed.Store(true)
	a.frames.Release()
	a.setLight(false)
}
