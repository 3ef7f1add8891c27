package cmd

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var replacer = strings.NewReplacer(".", "_", "-", "_")

type argType interface {
	string | bool | int | time.Duration
}

// envName returns the environment variable bound to cfg.
func envName[T argType](cfg boundEnvVar[T]) string {
	if cfg.Env != nil {
		return *cfg.Env
	}
	return strings.ToUpper(replacer.Replace(cfg.Name))
}

// bindEnvMap registers a persistent flag per entry. The flag default is the environment value when set,
// else the current (file or default) configuration value.
func bindEnvMap[T argType](cmd *cobra.Command, m map[*T]boundEnvVar[T]) {
	for v, cfg := range m {
		env := envName(cfg)
		desc := fmt.Sprintf("[%s] %s", env, cfg.Description)
		_ = viper.BindEnv(cfg.Name, env)
		fromEnv := viper.IsSet(cfg.Name)

		switch vt := any(v).(type) {
		case *string:
			def := *vt
			if fromEnv {
				def = viper.GetString(cfg.Name)
			}
			if cfg.Short == nil {
				cmd.PersistentFlags().StringVar(vt, cfg.Name, def, desc)
			} else {
				cmd.PersistentFlags().StringVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		case *bool:
			def := *vt
			if fromEnv {
				def = viper.GetBool(cfg.Name)
			}
			if cfg.Short == nil {
				cmd.PersistentFlags().BoolVar(vt, cfg.Name, def, desc)
			} else {
				cmd.PersistentFlags().BoolVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		case *int:
			def := *vt
			if fromEnv {
				def = viper.GetInt(cfg.Name)
			}
			if cfg.Short == nil {
				cmd.PersistentFlags().CountVar(vt, cfg.Name, desc)
			} else {
				cmd.PersistentFlags().CountVarP(vt, cfg.Name, *cfg.Short, desc)
			}
			_ = cmd.PersistentFlags().Lookup(cfg.Name).Value.Set(strconv.Itoa(def))
		case *time.Duration:
			def := *vt
			if fromEnv {
				def = viper.GetDuration(cfg.Name)
			}
			if cfg.Short == nil {
				cmd.PersistentFlags().DurationVar(vt, cfg.Name, def, desc)
			} else {
				cmd.PersistentFlags().DurationVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		default:
			log.Panicf("command-args parsing error: unhandled default case for type %T", vt)
		}

		_ = viper.BindPFlag(cfg.Name, cmd.PersistentFlags().Lookup(cfg.Name))

		if cfg.Hidden {
			_ = cmd.PersistentFlags().MarkHidden(cfg.Name)
		}
	}
}
