package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// env reads typed variables and remembers every parse failure.
type env struct {
	errs []error
}

func (e *env) raw(key string) string { return os.Getenv(key) }

func (e *env) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (e *env) integer(key string, def int) int {
	return parse(e, key, def, strconv.Atoi)
}

func (e *env) boolean(key string, def bool) bool {
	return parse(e, key, def, strconv.ParseBool)
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	return parse(e, key, def, time.ParseDuration)
}

func (e *env) err() error { return errors.Join(e.errs...) }

func parse[T any](e *env, key string, def T, fn func(string) (T, error)) T {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	out, err := fn(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("config: %s=%q: %w", key, v, err))
		return def
	}
	return out
}
