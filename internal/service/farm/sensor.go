package farm

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/smartfarm/assistant/backend/internal/model/farm"
)

// Simulator produces plausible sensor readings in place of real field hardware.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator seeds a simulator. Equal seeds give equal reading sequences.
func NewSimulator(seed uint64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Read returns moisture 10–40 %, pH 4.5–7.5, temperature 20–35 °C and humidity 50–90 %.
func (s *Simulator) Read() farm.SensorReading {
	s.mu.Lock()
	defer s.mu.Unlock()

	return farm.SensorReading{
		Moisture:    s.between(10, 40),
		PH:          math.Round((4.5+s.rng.Float64()*3.0)*10) / 10,
		Temperature: s.between(20, 35),
		Humidity:    s.between(50, 90),
	}
}

func (s *Simulator) between(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo+1)
}
