package gamedata

// SeedRecord is the seed export: the seed and the per-cell draws recorded
// while the grid was initialized.
type SeedRecord struct {
	Seed         uint64   `json:"seed" yaml:"seed"`
	NumbersAdded []uint64 `json:"numbers_added" yaml:"numbers_added"`
}

// SaveSeed writes a seed record to path.
func SaveSeed(path string, rec SeedRecord) error {
	return Save(path, rec)
}

// LoadSeed reads a seed record from path.
func LoadSeed(path string) (SeedRecord, error) {
	return Load[SeedRecord](path)
}
