package odometry

// DriftCorrector compensates a heading sensor's systematic drift, given as
// degrees gained per full clockwise and counter-clockwise revolution.
type DriftCorrector struct {
	sensor     HeadingSensor
	cwDrift    float64
	ccwDrift   float64
	baseline   float64
	correction float64
}

// NewDriftCorrector creates a DriftCorrector baselined at the current reading.
func NewDriftCorrector(sensor HeadingSensor, cwDrift, ccwDrift float64) *DriftCorrector {
	return &DriftCorrector{
		sensor:   sensor,
		cwDrift:  cwDrift,
		ccwDrift: ccwDrift,
		baseline: sensor.Rotation(),
	}
}

// SetInitial re-baselines at the current reading.
func (d *DriftCorrector) SetInitial() {
	d.baseline = d.sensor.Rotation()
}

// Correct applies the drift correction for the rotation since the last
// baseline and writes the corrected reading back into the sensor.
func (d *DriftCorrector) Correct() {
	raw := d.sensor.Rotation()
	delta := raw - d.baseline
	perRev := d.ccwDrift
	if delta > 0 {
		perRev = -d.cwDrift
	}
	add := delta / 360 * perRev
	corrected := raw + add
	d.sensor.SetRotation(corrected)
	d.correction += add
	// the next call sees the correction written back as rotation too.
	d.baseline = raw
}

// Rotation returns the sensor reading, which includes the corrections
// written back so far.
func (d *DriftCorrector) Rotation() float64 {
	return d.sensor.Rotation()
}

// Correction returns the total correction applied.
func (d *DriftCorrector) Correction() float64 {
	return d.correction
}
