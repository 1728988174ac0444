// Package analysis provides offline characterization of a wave field.
//
// The tools sample the height signal at probe points and answer the
// questions a parameter-tuning session asks:
//
//   - [Spectrum]: power spectrum of the height signal at a point
//   - [DominantFrequency]: strongest temporal oscillation in the field
//   - [BandEnergy]: fraction of signal energy inside a frequency band,
//     used against the motion-discomfort band
//   - [PeakToPeak]: height excursion over a time window
//
// These run offline over synthetic windows; nothing here is called from
// the per-frame path.
package analysis
