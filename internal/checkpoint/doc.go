// Package checkpoint reassembles a model checkpoint that was shipped as
// numbered fragments (model.safetensors.part1, .part2, ...) into a single
// file. Reassembly happens at most once: a combined file that already looks
// complete is returned as is.
package checkpoint
