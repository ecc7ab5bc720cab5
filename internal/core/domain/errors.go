package domain

import "errors"

var (
	// ErrKeyNotFound - ключа нет в KV-хранилище.
	ErrKeyNotFound = errors.New("key not found")
	// ErrNotFound - объект не найден (сервер вернул 404 или нет черновика).
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument - некорректный параметр запроса.
	ErrInvalidArgument = errors.New("invalid argument")
)
