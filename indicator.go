package flipbook

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Backlight is an Indicator driving an active-high GPIO pin.
type Backlight struct {
	Pin gpio.PinOut
}

// Light implements Indicator.
func (b Backlight) Light(on bool) error {
	l := gpio.Low
	if on {
		l = gpio.High
	}
	if err := b.Pin.Out(l); err != nil {
		return fmt.Errorf("flipbook: backlight %s: %w", b.Pin, err)
	}
	return nil
}

// edgePoll bounds how long WatchPin waits before checking ctx again.
const edgePoll = 100 * time.Millisecond

// WatchPin calls fn for every falling edge on pin (a pulled-up button or a
// tap interrupt line) until ctx is done.
//
// fn runs on WatchPin's goroutine. Animator.Tap is safe to pass directly;
// anything else touching the Animator must be posted to its loop.
func WatchPin(ctx context.Context, pin gpio.PinIn, fn func()) error {
	if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return fmt.Errorf("flipbook: watch %s: %w", pin, err)
	}
	for {
		if pin.WaitForEdge(edgePoll) {
			fn()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}
