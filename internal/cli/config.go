package cli

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/landforge/pkg/errors"
	"github.com/matzehuels/landforge/pkg/pipeline"
)

// loadConfig decodes the TOML file at path into opts. Keys present in the
// file replace the current values. Unknown keys are an INVALID_CONFIG
// error so that typos do not go unnoticed.
func loadConfig(path string, opts *pipeline.Options) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// applyConfig loads the config file into opts and then re-applies every
// flag the user set explicitly, so flags win over the file.
func applyConfig(cmd *cobra.Command, path string, opts *pipeline.Options) error {
	if path == "" {
		return nil
	}

	changed := map[string]string{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	if err := loadConfig(path, opts); err != nil {
		return err
	}

	for name, value := range changed {
		if err := cmd.Flags().Set(name, value); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "re-apply --%s", name)
		}
	}
	return nil
}
