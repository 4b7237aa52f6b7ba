package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// SettingSource represents where an effective setting comes from.
type SettingSource string

const (
	SourceEnv     SettingSource = "env"
	SourceConfig  SettingSource = "config"
	SourceDefault SettingSource = "default"
)

// SettingStatus describes one effective setting.
type SettingStatus struct {
	Key    string        `json:"key"`
	Value  string        `json:"value"`
	Source SettingSource `json:"source"`
	EnvVar string        `json:"env_var"`
}

// Sources resolves every known setting against path (or the search paths
// when path is empty) and reports where its effective value came from.
func Sources(path string) ([]SettingStatus, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	keys := v.AllKeys()
	sort.Strings(keys)

	out := make([]SettingStatus, 0, len(keys))
	for _, key := range keys {
		s := SettingStatus{
			Key:    key,
			Value:  fmt.Sprint(v.Get(key)),
			EnvVar: EnvVar(key),
		}
		switch {
		case os.Getenv(s.EnvVar) != "":
			s.Source = SourceEnv
		case v.InConfig(key):
			s.Source = SourceConfig
		default:
			s.Source = SourceDefault
		}
		out = append(out, s)
	}
	return out, nil
}

// EnvVar returns the environment variable that overrides key,
// e.g. "api.port" -> "INVESTMODEL_API_PORT".
func EnvVar(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
