// Package viz presents finished trajectories in the terminal.
//
// Static charts are drawn with asciigraph ([PlotDisplacements],
// [PlotSeparation], [PlotEnergy], [PlotSpectrum]). [Player] is a Bubble Tea
// program that replays a run on a braille [Canvas]: the anchor wall, spring
// k1, mass 1, spring k2 and mass 2 along one line.
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from the first sample
//	[ ]   - Step one sample back/forward
//	T     - Cycle color themes
//	Q     - Quit
//
// Nothing in this package integrates; it only reads the trajectory by index.
package viz
