package config

import (
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/smykla-skalski/slack-code/pkg/config"
)

// CustomDecoderConfig returns a mapstructure decoder config with a hook for
// the config.Duration type.
func CustomDecoderConfig() *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToDurationHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           nil, // Set by caller
	}
}

// stringToDurationHookFunc returns a decode hook for converting strings to config.Duration.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func stringToDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(
		_ reflect.Type,
		t reflect.Type,
		data any,
	) (any, error) {
		if t != reflect.TypeFor[config.Duration]() {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return config.ParseDuration(v)

		case int64:
			return config.Duration(time.Duration(v) * time.Second), nil

		case int:
			return config.Duration(time.Duration(v) * time.Second), nil

		default:
			return data, nil
		}
	}
}
