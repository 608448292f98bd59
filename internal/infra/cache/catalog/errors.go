package catalog

import "errors"

var (
	// ErrCacheMiss возвращается, когда ключа нет в кэше
	ErrCacheMiss = errors.New("catalog.cache: miss")

	// ErrCache возвращается при ошибках redis
	ErrCache = errors.New("catalog.cache: redis error")

	// ErrCodec возвращается при ошибках сериализации записи
	ErrCodec = errors.New("catalog.cache: codec error")
)
