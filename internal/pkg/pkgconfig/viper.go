package pkgconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var _ Config = (*Viper)(nil)

type Viper struct {
	v *viper.Viper
}

// NewViper reads the file at pathFile, whose type follows its extension.
//
// Lookups resolve in this order: environment variable named after the key
// in upper case with dots as underscores (LEDGER_STRICT for ledger.strict),
// then the file, then defaults.
func NewViper(pathFile string, defaults map[string]any) (*Viper, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(pathFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", pathFile, err)
	}

	return &Viper{v: v}, nil
}

func (vc *Viper) GetInt(key string) int64 {
	return vc.v.GetInt64(key)
}

func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetDuration accepts Go duration strings such as "200ms"; bare numbers are
// read as nanoseconds.
func (vc *Viper) GetDuration(key string) time.Duration {
	return vc.v.GetDuration(key)
}
