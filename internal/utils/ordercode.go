package utils

import (
	"math/rand"
	"strings"
)

// Алфавит без строчных букв: код показывается покупателю и диктуется
// по телефону.
const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderCode возвращает случайный код заказа заданной длины.
// Уникальность здесь не гарантируется - её обеспечивает уникальный
// индекс в базе и повтор при коллизии.
func GenerateOrderCode(length int) string {
	if length <= 0 {
		length = 6
	}

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return b.String()
}
