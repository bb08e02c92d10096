// Package digest computes and verifies file checksums.
//
// A fixed set of algorithms is supported: MD5, SHA-1, SHA-256 and CRC32.
// A [Set] folds every written chunk through all of its algorithms in one
// pass, so hashing a stream costs a single read regardless of how many
// digests were requested.
//
// # Usage
//
//	set := digest.NewSet(digest.MD5, digest.SHA256)
//	io.Copy(set, reader)
//	sums := set.Sums() // map[Algorithm]string, lowercase hex
//
// Expected digests of unknown provenance are matched to an algorithm by
// their hex length via [Detect]; each supported algorithm has a unique
// output length (CRC32: 8, MD5: 32, SHA-1: 40, SHA-256: 64).
package digest
