// Package scoring turns raw 360-degree review responses into weighted scores,
// self/peer category gaps, SWOT summaries, confidence bands and compensation
// recommendations.
//
// Everything except Resolver.Resolve is pure and synchronous: results are
// recomputed from responses on every call and never cached. Category keys are
// canonical stored names; translating them for display happens after scoring.
package scoring
