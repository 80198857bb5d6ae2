// Package staging turns the triaged video pile into pending tagging batches:
// fixed-size part-N directories, each with a skeleton tags.txt whose empty
// tag lists mark the videos as not yet ingestable.
package staging
