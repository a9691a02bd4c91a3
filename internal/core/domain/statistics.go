package domain

// IntRange - диапазон годов, {0,0} для пустого каталога
type IntRange struct {
	Min int
	Max int
}

// PriceRange - диапазон цен, {0,0} для пустого каталога
type PriceRange struct {
	Min float64
	Max float64
}
