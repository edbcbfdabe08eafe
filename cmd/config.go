package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"tisp/common"

	"github.com/pelletier/go-toml"
)

// Enumeration of build output modes.
const (
	OutModeExecutable = iota // link a native executable (the default)
	OutModeLLVM              // emit LLVM IR only
	OutModeASM               // emit assembly only
	OutModeObj               // emit an object file only
)

// BuildProfile is the resolved build configuration for one compilation: the
// merge of the defaults, the optional `tisp.toml` next to the input file, and
// the command-line flags.
type BuildProfile struct {
	// OutputPath is the output executable name.  Empty means derive it from
	// the input file name.
	OutputPath string

	// OutputMode is one of the enumerated build output modes.
	OutputMode int

	// Verbose indicates that intermediate files should be preserved.
	Verbose bool

	// LLC and CC name the external tools: the static compiler and the C
	// compiler driver used for linking.
	LLC string
	CC  string
}

// tomlProfile represents a build profile as it is encoded in TOML.
type tomlProfile struct {
	Output  string    `toml:"output"`
	Emit    string    `toml:"emit"`
	Verbose bool      `toml:"verbose"`
	Tools   tomlTools `toml:"tools"`
}

type tomlTools struct {
	LLC string `toml:"llc"`
	CC  string `toml:"cc"`
}

// emitModes maps TOML emit mode strings to enumerated output modes.
var emitModes = map[string]int{
	"exe": OutModeExecutable,
	"ir":  OutModeLLVM,
	"asm": OutModeASM,
	"obj": OutModeObj,
}

// LoadProfile loads the build profile for the given input file: the defaults
// overlaid with the `tisp.toml` in the input file's directory, if present.
func LoadProfile(inputPath string) (*BuildProfile, error) {
	profile := &BuildProfile{LLC: "llc", CC: defaultCC()}

	buff, err := os.ReadFile(filepath.Join(filepath.Dir(inputPath), common.TispConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return profile, nil
		}

		return nil, fmt.Errorf("error reading build config: %s", err.Error())
	}

	tomlProf := &tomlProfile{}
	if err := toml.Unmarshal(buff, tomlProf); err != nil {
		return nil, fmt.Errorf("error parsing build config: %s", err.Error())
	}

	if err := applyProfile(profile, tomlProf); err != nil {
		return nil, err
	}

	return profile, nil
}

// applyProfile overlays the deserialized TOML profile onto the defaults.
func applyProfile(profile *BuildProfile, tomlProf *tomlProfile) error {
	if tomlProf.Emit != "" {
		mode, ok := emitModes[tomlProf.Emit]
		if !ok {
			return fmt.Errorf("unknown emit mode: `%s`", tomlProf.Emit)
		}

		profile.OutputMode = mode
	}

	profile.OutputPath = tomlProf.Output
	profile.Verbose = tomlProf.Verbose

	if tomlProf.Tools.LLC != "" {
		profile.LLC = tomlProf.Tools.LLC
	}

	if tomlProf.Tools.CC != "" {
		profile.CC = tomlProf.Tools.CC
	}

	return nil
}
