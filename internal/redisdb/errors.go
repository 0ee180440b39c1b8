package redisdb

import "errors"

var ErrInvalidKey = errors.New("invalid redis key")

// RedisError records the failing operation and key.
type RedisError struct {
	Op  string
	Key string
	Err error
}

func (e *RedisError) Error() string {
	if e.Key != "" {
		return "redis " + e.Op + " '" + e.Key + "': " + e.Err.Error()
	}
	return "redis " + e.Op + ": " + e.Err.Error()
}

func (e *RedisError) Unwrap() error {
	return e.Err
}

func NewRedisError(op, key string, err error) error {
	return &RedisError{
		Op:  op,
		Key: key,
		Err: err,
	}
}
