// Package viz draws the scene graph into the terminal.
//
// A [Canvas] is a grid of braille cells (2x4 sub-pixels each) that keeps a
// colour per cell. [SceneWireframe] turns boxes, spheres, pendulum tethers
// and laser pointers into coloured edges, and [Render3D] projects them
// through a [View] built from the scene camera with the same perspective
// used for screen-space picking.
//
// Themes and [Styles] carry the lipgloss styling of the live status panel.
package viz
