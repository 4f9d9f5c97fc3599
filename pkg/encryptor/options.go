package encryptor

// Option configures an Encryptor.
type Option func(*options)

type options struct {
	iterations int
	header     string
}

// WithIterations sets the PBKDF2 iteration count. Values below 1 are rejected by New.
func WithIterations(n int) Option {
	return func(o *options) {
		o.iterations = n
	}
}

// WithHeader sets the associated data mixed into every synthetic IV.
// Ciphertexts produced under different headers do not decrypt under each other.
func WithHeader(header string) Option {
	return func(o *options) {
		o.header = header
	}
}
