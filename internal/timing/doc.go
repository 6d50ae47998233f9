// Package timing maps forced-alignment character segments onto canonical
// lyric lines.
//
// Aligner output does not line up 1:1 with the authored song: choruses
// repeat, ad-libs go unrecognized, and structural lines are never sung.
// The mapper reconciles the two shapes while guaranteeing that every input
// line receives a timestamp and the output stays in non-decreasing time
// order.
package timing
