// Package partial manages the on-disk staging file for a download.
//
// The staging file lives next to the destination with a ".part" suffix, so
// re-running the tool against the same destination finds and resumes the
// same file. Its raw byte length is the only resume bookkeeping; there is
// no separate metadata file.
//
// # Lifecycle
//
//	pf, err := partial.Open(dest, true)
//	offset := pf.Size()          // resume offset for the Range header
//	pf.Append(chunk)             // the only path that grows the file
//	pf.Finalize(total)           // flush, close, check length
//	path, err := pf.Promote()    // rename .part to the destination
//
// On failure the staging file is left in place for a future resume; it is
// never deleted automatically.
package partial
