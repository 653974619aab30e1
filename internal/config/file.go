package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to flag names when reading environment variables,
// e.g. --rate-limit becomes OPENREDIRX_RATE_LIMIT.
const EnvPrefix = "OPENREDIRX"

// MergeFlags fills flags that were not set on the command line from the
// environment and, if configFile is non-empty, from that file. Precedence is
// flag > environment > file > flag default.
func MergeFlags(fs *pflag.FlagSet, configFile string) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var firstErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if firstErr != nil || f.Changed || f.Name == "config" || f.Name == "help" || f.Name == "version" {
			return
		}
		if !v.IsSet(f.Name) {
			return
		}
		val := v.Get(f.Name)
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			if items, isList := listItems(val); isList {
				if err := sv.Replace(items); err != nil {
					firstErr = fmt.Errorf("config value for %q: %w", f.Name, err)
				}
				f.Changed = true
				return
			}
		}
		if err := fs.Set(f.Name, flagString(val)); err != nil {
			firstErr = fmt.Errorf("config value for %q: %w", f.Name, err)
		}
	})
	return firstErr
}

// listItems returns the elements of a YAML/TOML/JSON list value.
func listItems(val interface{}) ([]string, bool) {
	switch t := val.(type) {
	case []interface{}:
		items := make([]string, len(t))
		for i, p := range t {
			items[i] = fmt.Sprint(p)
		}
		return items, true
	case []string:
		return t, true
	}
	return nil, false
}

// flagString renders a viper value in the form pflag.Value.Set expects.
// Lists for flags without slice support become comma-separated.
func flagString(val interface{}) string {
	if items, ok := listItems(val); ok {
		return strings.Join(items, ",")
	}
	return fmt.Sprint(val)
}
