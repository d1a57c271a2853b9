// Package viewer holds the display-independent half of the interactive
// zoom: input handling ([Zoom]) and scene construction ([BuildScene]).
//
// The window subpackage draws a [Scene] with ebiten. Keeping the logic here
// lets it be tested without a display or a GPU.
package viewer
