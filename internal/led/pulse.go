package led

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// PulseTiming shapes the breathing effect.
type PulseTiming struct {
	FadeIn  time.Duration
	FadeOut time.Duration
	FPS     int
}

var DefaultPulse = PulseTiming{FadeIn: time.Second, FadeOut: time.Second, FPS: 25}

// levels returns one full breath: ramp up, then ramp down.
func (pt PulseTiming) levels() []float64 {
	fps := pt.FPS
	if fps <= 0 {
		fps = DefaultPulse.FPS
	}
	in := int(pt.FadeIn.Seconds() * float64(fps))
	out := int(pt.FadeOut.Seconds() * float64(fps))
	lv := make([]float64, 0, in+out)
	for i := 0; i < in; i++ {
		lv = append(lv, float64(i)/float64(in))
	}
	for i := 0; i < out; i++ {
		lv = append(lv, 1-float64(i)/float64(out))
	}
	if len(lv) == 0 {
		lv = append(lv, 1, 0)
	}
	return lv
}

// pulser owns at most one breathing goroutine.
type pulser struct {
	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// start replaces any running breath with a new one writing through set.
// set must not call halt.
func (p *pulser) start(set func(float64) error, pt PulseTiming) {
	p.halt()

	stop := make(chan struct{})
	done := make(chan struct{})
	p.mu.Lock()
	p.stop, p.done = stop, done
	p.mu.Unlock()

	lv := pt.levels()
	fps := pt.FPS
	if fps <= 0 {
		fps = DefaultPulse.FPS
	}
	go func() {
		defer close(done)
		tick := time.NewTicker(time.Second / time.Duration(fps))
		defer tick.Stop()
		for {
			for _, v := range lv {
				select {
				case <-stop:
					return
				case <-tick.C:
				}
				if err := set(v); err != nil {
					log.Warn().Err(err).Msg("pulse stopped")
					return
				}
			}
		}
	}()
}

// halt stops the breath and waits for it to exit.
func (p *pulser) halt() {
	p.mu.Lock()
	stop, done := p.stop, p.done
	p.stop, p.done = nil, nil
	p.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (p *pulser) running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}
