package decision

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceBandIsTotalOverUnitInterval(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		c := float64(i) / 1000
		band := ConfidenceBand(c)
		switch {
		case c >= 0.9:
			assert.Equal(t, BandHigh, band, "c=%v", c)
		case c >= 0.7:
			assert.Equal(t, BandMedium, band, "c=%v", c)
		default:
			assert.Equal(t, BandLow, band, "c=%v", c)
		}
	}
}

func TestConfidenceBandBoundariesAndClamping(t *testing.T) {
	assert.Equal(t, BandHigh, ConfidenceBand(0.9))
	assert.Equal(t, BandMedium, ConfidenceBand(0.8999))
	assert.Equal(t, BandMedium, ConfidenceBand(0.7))
	assert.Equal(t, BandLow, ConfidenceBand(0.6999))
	assert.Equal(t, BandHigh, ConfidenceBand(1.7))
	assert.Equal(t, BandLow, ConfidenceBand(-3))
	assert.Equal(t, BandLow, ConfidenceBand(math.NaN()))
}

func TestBandColor(t *testing.T) {
	assert.Equal(t, "green", BandHigh.Color())
	assert.Equal(t, "yellow", BandMedium.Color())
	assert.Equal(t, "red", BandLow.Color())
}
