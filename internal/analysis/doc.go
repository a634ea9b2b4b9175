// Package analysis summarizes computed basin fields.
//
//   - [Summarize]: per-attractor pixel share, capture counts and mean iterations
//   - [IterationHistogram]: distribution of iterations to capture
//
// A summary feeds the stats command and the persisted run metadata:
//
//	s := analysis.Summarize(buf, set)
//	fmt.Println(s.CaptureRate())
package analysis
