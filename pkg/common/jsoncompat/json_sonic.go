//go:build !stdjson

package jsoncompat

import "github.com/bytedance/sonic"

// Marshal proxies to sonic with standard library compatible settings.
func Marshal(v any) ([]byte, error) { return sonic.ConfigStd.Marshal(v) }

// Unmarshal proxies to sonic with standard library compatible settings.
func Unmarshal(data []byte, v any) error { return sonic.ConfigStd.Unmarshal(data, v) }
