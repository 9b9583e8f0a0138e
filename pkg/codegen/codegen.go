package codegen

import (
	"strings"

	"github.com/google/uuid"
)

// Длина короткого публичного кода бронирования
const CodeLength = 6

// NewHash генерирует новый опаковый токен подтверждения (32 hex символа)
func NewHash() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CodeFromHash возвращает короткий публичный код бронирования -
// верхний регистр первых CodeLength символов хеша
// Подтверждение работает по префиксу хеша, поэтому код всегда валидный префикс
func CodeFromHash(hash string) string {
	if len(hash) < CodeLength {
		return strings.ToUpper(hash)
	}
	return strings.ToUpper(hash[:CodeLength])
}
