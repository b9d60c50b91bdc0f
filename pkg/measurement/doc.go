// Package measurement holds the raw voltage-current sweep of a single tape
// sample and the derived curves handed to downstream consumers:
//
//   - Measurement: ordered (current, voltage) pairs as acquired
//   - Curve: a (current, field) sequence, either background-corrected data
//     or a sampled model
//   - FileInfo: field strength and angle decoded from the instrument file name
//
// Loading from the instrument's column text format lives here too, so every
// entry point (CLI, daemon) validates input the same way.
package measurement
