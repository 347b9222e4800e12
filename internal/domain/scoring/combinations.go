package scoring

import "github.com/cannona/choose"

// Binomial returns C(n, k), or 0 when k is outside [0, n].
func Binomial(n, k int) int {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	return int(choose.Choose(int64(n), int64(k)))
}

// Unrank writes into comb the combination of len(comb) elements from
// {0..n-1} whose rank in lexicographic order is r.
func Unrank(r, n int, comb []int) {
	k := len(comb)
	x := 0
	for i := 0; i < k; i++ {
		for {
			c := Binomial(n-x-1, k-i-1)
			if r < c {
				break
			}
			r -= c
			x++
		}
		comb[i] = x
		x++
	}
}

// Rank is the inverse of Unrank for a strictly increasing comb.
func Rank(comb []int, n int) int {
	k := len(comb)
	r := 0
	prev := -1
	for i, c := range comb {
		for x := prev + 1; x < c; x++ {
			r += Binomial(n-x-1, k-i-1)
		}
		prev = c
	}
	return r
}

// Next advances comb to the lexicographically next combination of
// {0..n-1}. It returns false when comb was the last one.
func Next(comb []int, n int) bool {
	k := len(comb)
	i := k - 1
	for i >= 0 && comb[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	comb[i]++
	for j := i + 1; j < k; j++ {
		comb[j] = comb[j-1] + 1
	}
	return true
}
