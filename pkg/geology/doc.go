// Package geology derives per-site geological parameters from a noise field.
//
// # Overview
//
// Every function in this package is a pure function of a [Params] value and
// a coordinate. Params carries the shared noise field together with the
// handful of numbers the formulas need (domain size, fault scale,
// erodibility power, land bias), so each signal can be evaluated and tested
// in isolation without building a site graph.
//
// The signals are layered in a fixed order:
//
//  1. [Displace] warps the site coordinate with the fault field. All later
//     samples for the site use the displaced coordinate.
//  2. [Classify] samples the persistence, plate and continent signals and
//     decides whether the site is a candidate outlet (ocean).
//  3. [Erodibility] samples the erodibility signal.
//
// # Land Ratio
//
// The requested land ratio is turned into a bias on the plate/continent
// comparison by inverting a smoothstep curve ([Curve], [InverseCurve],
// [LandBias]).
//
// # Outlets
//
// Candidates alone are not outlets: a candidate only drains if it is
// connected to the domain boundary through other candidates. [Propagate]
// computes that closure with an explicit worklist and falls back to a single
// boundary site when nothing qualifies. A graph without boundary sites yields
// [ErrNoOutlet].
//
// [Synthesize] runs the per-site stages concurrently and the propagation
// once, returning a [Field].
package geology
