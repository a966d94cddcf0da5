package cal

// Codec seals and opens the bytes of logs that are stored as a single blob,
// such as a CSV file or an S3 object.
type Codec interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}
