package led

import (
	"bytes"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"
)

func testPins() ([]*gpiotest.Pin, []gpio.PinOut) {
	var raw []*gpiotest.Pin
	var pins []gpio.PinOut
	for i := 0; i < Count; i++ {
		p := &gpiotest.Pin{N: DefaultPins[i], Num: i}
		raw = append(raw, p)
		pins = append(pins, p)
	}
	return raw, pins
}

func TestPWMBoardLevels(t *testing.T) {
	raw, pins := testPins()
	b, err := NewPWMBoard(pins, 0)
	require.NoError(t, err)
	lights := b.Lights()
	require.Len(t, lights, Count)

	require.NoError(t, lights[0].SetBrightness(1))
	require.NoError(t, lights[1].SetBrightness(0.5))
	require.NoError(t, lights[2].SetBrightness(-3))

	raw[0].Lock()
	assert.Equal(t, gpio.High, raw[0].L)
	raw[0].Unlock()

	raw[1].Lock()
	assert.Equal(t, gpio.DutyHalf, raw[1].D)
	assert.Equal(t, DefaultPWMFreq, raw[1].F)
	raw[1].Unlock()

	raw[2].Lock()
	assert.Equal(t, gpio.Low, raw[2].L)
	raw[2].Unlock()
}

func TestPWMBoardWrongPinCount(t *testing.T) {
	_, pins := testPins()
	_, err := NewPWMBoard(pins[:10], 0)
	assert.Error(t, err)
}

func TestPWMBoardCloseTurnsOff(t *testing.T) {
	raw, pins := testPins()
	b, err := NewPWMBoard(pins, 0)
	require.NoError(t, err)
	for _, l := range b.Lights() {
		require.NoError(t, l.SetBrightness(1))
	}
	require.NoError(t, b.Close())
	for _, p := range raw {
		p.Lock()
		assert.Equal(t, gpio.Low, p.L)
		p.Unlock()
	}
	assert.ErrorIs(t, b.Lights()[3].SetBrightness(1), ErrClosed)
	assert.NoError(t, b.Close())
}

func TestPWMPulseStoppedBySetBrightness(t *testing.T) {
	raw, pins := testPins()
	b, err := NewPWMBoard(pins, 0)
	require.NoError(t, err)
	b.pulse = PulseTiming{FadeIn: 40 * time.Millisecond, FadeOut: 40 * time.Millisecond, FPS: 200}

	l := b.lights[5]
	require.NoError(t, l.Pulse())
	assert.True(t, l.pulse.running())
	time.Sleep(30 * time.Millisecond)

	require.NoError(t, l.SetBrightness(1))
	assert.False(t, l.pulse.running())
	raw[5].Lock()
	assert.Equal(t, gpio.High, raw[5].L)
	raw[5].Unlock()
}

func TestPulseLevels(t *testing.T) {
	lv := PulseTiming{FadeIn: time.Second, FadeOut: time.Second, FPS: 4}.levels()
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1, 0.75, 0.5, 0.25}, lv)
}

func TestStripBoardFlush(t *testing.T) {
	var buf bytes.Buffer
	b, err := NewStripBoard(spitest.NewRecordRaw(&buf), 0)
	require.NoError(t, err)

	sent := buf.Len()
	lights := b.Lights()
	require.NoError(t, lights[0].SetBrightness(1))
	require.NoError(t, lights[25].SetBrightness(0.5))
	assert.Equal(t, sent, buf.Len(), "nothing is sent before Flush")

	pix := b.Pixels()
	assert.Equal(t, []byte{255, 255, 255}, pix[0:3])
	assert.Equal(t, []byte{128, 128, 128}, pix[75:78])

	require.NoError(t, b.Flush())
	assert.Greater(t, buf.Len(), sent)

	require.NoError(t, b.Close())
	assert.Equal(t, make([]byte, Count*3), b.Pixels())
	assert.ErrorIs(t, b.Flush(), ErrClosed)
}

type fakeDrawer struct {
	draws int
	last  image.Image
}

func (d *fakeDrawer) String() string          { return "fake" }
func (d *fakeDrawer) Halt() error             { return nil }
func (d *fakeDrawer) ColorModel() color.Model { return color.GrayModel }
func (d *fakeDrawer) Bounds() image.Rectangle { return image.Rect(0, 0, Count, 1) }
func (d *fakeDrawer) Draw(_ image.Rectangle, src image.Image, _ image.Point) error {
	d.draws++
	d.last = src
	return nil
}

func TestDrawerBoard(t *testing.T) {
	d := &fakeDrawer{}
	b := NewDrawerBoard(d)
	require.NoError(t, b.Lights()[2].SetBrightness(1))
	require.NoError(t, Flush(b))
	require.Equal(t, 1, d.draws)

	g := d.last.(*image.Gray)
	assert.Equal(t, uint8(255), g.GrayAt(2, 0).Y)
	assert.Equal(t, uint8(0), g.GrayAt(3, 0).Y)

	require.NoError(t, b.Close())
	assert.Equal(t, uint8(0), d.last.(*image.Gray).GrayAt(2, 0).Y)
}

func TestSimBoard(t *testing.T) {
	b := NewSim()
	lights := b.Lights()
	require.NoError(t, lights[4].SetBrightness(2))
	require.NoError(t, lights[7].Pulse())
	assert.Equal(t, 1.0, b.Levels()[4])
	assert.Equal(t, []int{7}, b.Pulsing())
	assert.Equal(t, 1, b.Writes(4))

	require.NoError(t, Flush(b))
	assert.Equal(t, 1, b.Flushes())

	require.NoError(t, b.Off())
	assert.Equal(t, make([]float64, Count), b.Levels())
	assert.Empty(t, b.Pulsing())

	require.NoError(t, b.Close())
	assert.True(t, b.Closed())
	assert.ErrorIs(t, lights[0].SetBrightness(1), ErrClosed)
}

func TestLookupPinsWrongCount(t *testing.T) {
	_, err := LookupPins([]string{"GPIO2"})
	assert.ErrorIs(t, err, ErrPinCount)
	assert.Len(t, DefaultPins, Count)
}
