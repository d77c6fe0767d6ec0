/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"github.com/tomoncle/geopin/database"
)

const (
	// EnvPrefix marks the environment variables read by Load.
	EnvPrefix = "GEOPIN_"
	// EnvFile names a config file when Load is called without a path.
	EnvFile = EnvPrefix + "CONFIG"

	envNestingSeparator = "__"
)

// Load reads the store configuration. Values start from
// database.DefaultConfig, are overlaid by the YAML file at path (if any) and
// finally by GEOPIN_ environment variables, where a double underscore
// separates nesting levels:
//
//	GEOPIN_CONNECTION__DBNAME=/var/lib/geopin/pins
//	GEOPIN_CONNECTION__BUSY_TIMEOUT=2s
//	GEOPIN_SCHEMA__DROP_ON_RECREATE=true
func Load(path string) (*database.Config, error) {
	cfg := database.DefaultConfig()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config %s failed", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	return cfg, nil
}

// transformEnv maps GEOPIN_CONNECTION__MAX_OPEN_CONNS to
// connection.max_open_conns. The config file variable is skipped.
func transformEnv(k, v string) (string, any) {
	if k == EnvFile {
		return "", nil
	}
	key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	return strings.ReplaceAll(key, envNestingSeparator, "."), v
}
