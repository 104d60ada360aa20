// Package retrieval implements the bag-of-words vector space used to find
// passages relevant to a question.
//
// The vector space is document-local: the vocabulary is the sorted set of
// terms across every stored chunk, and a vector holds the term frequency of
// each vocabulary term normalised by the token count of the embedded text.
// Vectors are tagged with the vocabulary generation they were computed under
// so comparisons across generations are rejected instead of silently scoring 0.
//
// Everything here is a pure function. State lives in the retrieval store.
package retrieval
