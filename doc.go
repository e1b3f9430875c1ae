// Package classbench benchmarks classification model families against each
// other on a single labeled dataset.
//
// A run partitions the data once into stratified train and test sides, tunes
// each model variant on the training side only (cross-validated neighbor
// count selection for KNN, out-of-bag error for the random forest, one
// kernel discriminant variant per bandwidth rule), fits the final models,
// and reports every variant's held-out misclassification rate in one
// comparable table. All randomness flows from a single seed, so runs are
// bit-reproducible.
//
// The top-level entry point is the bench package; dataset handles loading
// and partitioning, classify/* hold the model families, and modelsel
// provides the shared cross-validation machinery.
package classbench
