package naming

import "math/rand"

var fallbackPool = []string{
	"Qlix", "Vexo", "Nexu", "Ryze", "Flux", "Zura", "Kliq", "Onyx",
	"Apex", "Prox", "Zeal", "Vibe", "Echo", "Nova", "Luma", "Koda",
	"Fixa", "Valo", "Mira", "Trix", "Lyra", "Axel", "Vera", "Zeta",
}

var (
	syntheticBases    = []string{"Qlix", "Vexo", "Nexu", "Ryze", "Flux"}
	syntheticSuffixes = []string{"ly", "x", "r", "o", "a"}
)

// FallbackNames returns exactly count names: a random sample of the pool
// without replacement, followed by synthetic variants when count exceeds the
// pool size. Synthetic variants are not checked against each other or the pool.
func FallbackNames(count int) []string {
	if count <= 0 {
		return []string{}
	}
	take := min(count, len(fallbackPool))
	names := make([]string, 0, count)
	for _, idx := range rand.Perm(len(fallbackPool))[:take] {
		names = append(names, fallbackPool[idx])
	}
	return append(names, syntheticNames(count-take)...)
}

// PoolSize reports how many distinct names FallbackNames can return.
func PoolSize() int {
	return len(fallbackPool)
}

func syntheticNames(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		base := syntheticBases[rand.Intn(len(syntheticBases))]
		suffix := syntheticSuffixes[rand.Intn(len(syntheticSuffixes))]
		out = append(out, Normalize(base[:len(base)-1]+suffix))
	}
	return out
}
