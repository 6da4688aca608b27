// Package gui is the translator window: a source text box, a target
// language picker and a translate button, plus progress for the one-time
// checkpoint reassembly and a log panel.
package gui
