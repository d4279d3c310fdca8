package rng

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Seeder provides seeds for pseudo random sources
type Seeder interface {
	Int63() int64
}

// Seed returns a seed from the seeder, or from Crypto when the seeder is nil
func Seed(s Seeder) int64 {
	if s == nil {
		s = Crypto{}
	}

	return s.Int63()
}
