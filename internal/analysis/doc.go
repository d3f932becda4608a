// Package analysis extracts frequency content from recorded swings.
//
// [DominantPeriod] finds the strongest oscillation in a sampled series with
// a radix-2 [FFT], which is how the swing and plot commands report a
// measured period next to [SmallAnglePeriod].
package analysis
