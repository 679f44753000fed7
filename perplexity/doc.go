// Package perplexity converts a squared-distance matrix into the conditional
// probability matrix used by t-SNE, calibrating one Gaussian bandwidth per
// point so that every conditional distribution has the requested perplexity.
package perplexity
