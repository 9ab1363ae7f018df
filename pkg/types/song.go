package types

// Song represents a registered recording in the fingerprint store
type Song struct {
	// Identification
	ID   int64
	Name string

	// Source metadata
	FilePath string // Where the recording was read from; defaults to Name when unknown
	FileHash string // Digest of the source file, if the caller computed one

	// Fingerprinting state
	TotalHashes   int  // Number of fingerprint pairs submitted for this song
	Fingerprinted bool // True once every fingerprint batch has been committed
}
