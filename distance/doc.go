// Package distance computes pairwise squared Euclidean distances between
// points, the first stage of the embedding pipeline.
package distance
