package simulation

// battery tracks state of charge. The round-trip loss is applied entirely on
// charge: storing e kWh from the source adds e*efficiency to the state of
// charge, and discharge delivers state of charge one to one.
type battery struct {
	capacity   float64 // kWh
	power      float64 // kW, also kWh per hourly step
	efficiency float64
	soc        float64
}

func (b *battery) active() bool {
	return b.capacity > 0 && b.power > 0
}

// charge absorbs up to energy kWh from a source and returns what it took.
func (b *battery) charge(energy float64) float64 {
	if energy <= 0 || !b.active() {
		return 0
	}
	taken := energy
	if taken > b.power {
		taken = b.power
	}
	if room := (b.capacity - b.soc) / b.efficiency; taken > room {
		taken = room
	}
	if taken < 0 {
		return 0
	}
	b.soc += taken * b.efficiency
	if b.soc > b.capacity {
		b.soc = b.capacity
	}
	return taken
}

// discharge delivers up to need kWh and returns what it delivered.
func (b *battery) discharge(need float64) float64 {
	if need <= 0 || !b.active() {
		return 0
	}
	given := need
	if given > b.power {
		given = b.power
	}
	if given > b.soc {
		given = b.soc
	}
	b.soc -= given
	if b.soc < 0 {
		b.soc = 0
	}
	return given
}
