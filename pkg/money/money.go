// Package money конвертация денежных сумм в минорные единицы валюты (пенсы, центы)
// Все округления - round-half-up, как принято для денежных расчётов.
package money

import "math"

// ToMinor конвертирует сумму в основной валюте в минорные единицы
// Например, 19.995 GBP -> 2000 пенсов
func ToMinor(amount float64) int64 {
	return roundHalfUp(amount * 100)
}

// FromMinor конвертирует минорные единицы в сумму в основной валюте
func FromMinor(minor int64) float64 {
	return float64(minor) / 100
}

// PercentOf вычисляет процент от суммы в минорных единицах
// Например, PercentOf(10000, 20) = 2000
func PercentOf(minor int64, percent float64) int64 {
	return roundHalfUp(float64(minor) * percent / 100)
}

// roundHalfUp округляет до ближайшего целого, 0.5 всегда вверх
// math.Round здесь не подходит: для отрицательных значений она
// округляет половину от нуля, а не вверх
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
