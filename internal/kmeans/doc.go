// Package kmeans runs seeded Lloyd iterations over dense float64 points.
//
// Unlike a random-restart trainer it starts from caller-provided centers, so a
// run over the same points and seeds is deterministic. Use RandomSeeds to
// pick starting centers from the points themselves.
package kmeans
