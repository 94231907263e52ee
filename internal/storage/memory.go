package storage

// MemorySlot is a map-backed Slot. The zero value is not usable; use NewMemorySlot.
type MemorySlot struct {
	values map[string]string

	// Writes counts successful Set calls.
	Writes int
	// Err, when set, is returned by every Get and Set.
	Err error
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string]string)}
}

func (s *MemorySlot) Get(key string) (string, bool, error) {
	if s.Err != nil {
		return "", false, s.Err
	}
	if err := CheckKey(key); err != nil {
		return "", false, err
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemorySlot) Set(key, value string) error {
	if s.Err != nil {
		return s.Err
	}
	if err := CheckKey(key); err != nil {
		return err
	}
	s.values[key] = value
	s.Writes++
	return nil
}
