package repoargs

type DealStats struct {
	Total  int64
	Active int64
}
