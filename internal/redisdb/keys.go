package redisdb

import "strconv"

type KeyPrefix string

const (
	PrefixShortURLs KeyPrefix = "short_urls" // short_urls:<id>
)

// KeyBuilder builds keys, optionally under a namespace.
type KeyBuilder struct {
	namespace string
}

func NewKeyBuilder(namespace string) *KeyBuilder {
	return &KeyBuilder{namespace: namespace}
}

// Build joins prefix and parts with ':' and prepends the namespace if set.
func (k *KeyBuilder) Build(prefix KeyPrefix, parts ...string) string {
	key := string(prefix)

	if k.namespace != "" {
		key = k.namespace + ":" + key
	}

	for _, part := range parts {
		key += ":" + part
	}

	return key
}

// Sequence is the counter INCR'd for record ids.
func (k *KeyBuilder) Sequence() string {
	return k.Build(PrefixShortURLs, "seq")
}

// Record is the hash holding one row.
func (k *KeyBuilder) Record(id int64) string {
	return k.Build(PrefixShortURLs, strconv.FormatInt(id, 10))
}

// ShortURLIndex maps short_url to id.
func (k *KeyBuilder) ShortURLIndex() string {
	return k.Build(PrefixShortURLs, "by_short_url")
}
