package storage

// Disabled is the backend used when no persistence is reachable.
// Reads report not-found and writes are dropped, so stores behave as
// empty collections instead of failing.
type Disabled struct{}

func NewDisabled() Disabled {
	return Disabled{}
}

func (Disabled) Get(key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Disabled) Set(key string, value []byte) error {
	return nil
}

func (Disabled) Delete(key string) error {
	return nil
}
