// Package viz renders basin fields in the terminal.
//
// The preview is a Bubble Tea program that draws the composited field with
// half-block cells, two field rows per terminal row:
//
//   - [Preview]: interactive model that edits the scene and recomputes
//   - [RenderHalfBlocks]: image to styled terminal text
//
// # Key Bindings
//
//	Tab/Shift+Tab - Select next/previous attractor
//	Arrows/hjkl   - Move the selected attractor
//	+/-           - Grow/shrink the move step
//	P             - Cycle integration profile
//	F             - Toggle nearest/linear filtering
//	S             - Save the current run
//	Q             - Quit
package viz
