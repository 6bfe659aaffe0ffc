package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var durationType = reflect.TypeOf(time.Duration(0))

// EnvName returns the environment variable derived from a config key.
//
//	auth.jwt.secret -> AUTH_JWT_SECRET
func EnvName(key string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// ConfigKeys lists the dotted keys declared by cfg's mapstructure tags.
func ConfigKeys(cfg interface{}) ([]string, error) {
	t := reflect.TypeOf(cfg)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("config: expected pointer to struct, got %T", cfg)
	}
	var keys []string
	collectKeys(t, "", &keys)
	return keys, nil
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		if strings.Contains(opts, "squash") {
			collectKeys(ft, prefix, keys)
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		if ft.Kind() == reflect.Struct && ft != durationType && ft.PkgPath() != "time" {
			collectKeys(ft, key, keys)
			continue
		}
		*keys = append(*keys, key)
	}
}

// bindEnv binds every declared key to its derived environment variable,
// followed by any aliases for that key.
func bindEnv(v *viper.Viper, cfg interface{}, aliases map[string]string) error {
	keys, err := ConfigKeys(cfg)
	if err != nil {
		return err
	}

	byKey := make(map[string][]string, len(aliases))
	for env, key := range aliases {
		byKey[key] = append(byKey[key], env)
	}

	for _, key := range keys {
		names := append([]string{key, EnvName(key)}, byKey[key]...)
		if err := v.BindEnv(names...); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
		delete(byKey, key)
	}
	for key := range byKey {
		return fmt.Errorf("env alias targets unknown config key %q", key)
	}
	return nil
}
