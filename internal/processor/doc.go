// Package processor ties the pieces together: it reassembles the
// checkpoint and loads the model exactly once per process, then serves
// single translations, batch files and the GUI from that one model.
package processor
