package wire

import "fmt"

// Streamer is implemented by every class with a dictionary.
type Streamer interface {
	Streamer(b *Buffer) error
}

// Marshal writes obj into a fresh buffer and returns the bytes.
func Marshal(obj Streamer, opts ...Option) ([]byte, error) {
	b := NewWriter(opts...)
	if err := obj.Streamer(b); err != nil {
		return nil, err
	}
	if err := b.Err(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Unmarshal reads obj from data. Trailing bytes are an error.
func Unmarshal(data []byte, obj Streamer, opts ...Option) error {
	b := NewReader(data, opts...)
	if err := obj.Streamer(b); err != nil {
		return err
	}
	if err := b.Err(); err != nil {
		return err
	}
	if b.Remaining() != 0 {
		return fmt.Errorf("wire: %d trailing bytes after %T", b.Remaining(), obj)
	}
	return nil
}
