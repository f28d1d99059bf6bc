// Package terra8cfg loads the TOML run configuration consumed by the
// terra8 CLI.
package terra8cfg

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// ConfigData holds the settings for a single terra8 CLI invocation. Any
// path field may be a local filesystem path, an http(s):// URL, or an
// s3://bucket/key blob path; the remote package resolves these before the
// core package sees them. Path fields may also contain environment
// variables, which are expanded when the file is read.
type ConfigData struct {
	// DirectionFile is the path to the D8 flow-direction raster consumed
	// by FlowAccum and UpslopeTrace.
	DirectionFile string

	// ElevationFile is the path to the elevation raster consumed by
	// TerrainOps.
	ElevationFile string

	// OutputFile is the path the computed raster is written to.
	OutputFile string

	// LogFile is the path to the desired logfile location. If left
	// blank, log output goes to stderr.
	LogFile string

	// ZScale is the elevation exaggeration factor applied to every
	// terrain-operator neighborhood before differentiation.
	ZScale float64

	// CellSizeOverride, if nonzero, replaces the cell dimensions read
	// from the input raster's header for both X and Y.
	CellSizeOverride float64

	// Expr is an optional user-supplied govaluate expression combining
	// built-in terrain rasters (e.g. "spi + 0.5*slope_percent"). If
	// empty, the CLI writes the operator's built-in output directly.
	Expr string

	// UpslopeTrace gives the two raster-coordinate endpoints of the seed
	// line for the upslope subcommand.
	UpslopeTrace struct {
		X0, Y0, X1, Y1 int
	}

	// LineShapefile, if set, is a blob path to a shapefile whose first
	// line feature supplies the upslope-trace endpoints instead of the
	// UpslopeTrace table above.
	LineShapefile string

	// MaxUndrainedReported is parsed from the configuration file but not
	// read by any command: FlowAccum always bounds its report's
	// undrained-cell coordinates to its fixed package default.
	MaxUndrainedReported int

	// Format selects the raster codec used for every input and output
	// file: "netcdf" for NetCDF-classic, or the default "ascii" for
	// ESRI ASCII Grid.
	Format string

	// NetCDFVariable names the variable read or written when Format is
	// "netcdf". Defaults to "value" if left blank.
	NetCDFVariable string
}

// ReadConfigFile reads and parses the TOML configuration at filename,
// expanding environment variables in every path-valued field. log, if
// non-nil, receives an entry describing the outcome; a nil log is treated
// as a no-op sink.
func ReadConfigFile(filename string, log *logrus.Entry) (config *ConfigData, err error) {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
		log.Logger.SetOutput(ioutil.Discard)
	}
	log = log.WithField("configFile", filename)

	file, err := os.Open(filename)
	if err != nil {
		log.Warn("configuration file does not appear to exist")
		return nil, fmt.Errorf("the configuration file you have specified, %v, does not "+
			"appear to exist. Please check the file name and location and try again", filename)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	bytes, err := ioutil.ReadAll(reader)
	if err != nil {
		log.WithField("error", err).Warn("problem reading configuration file")
		return nil, fmt.Errorf("problem reading configuration file: %v", err)
	}

	config = new(ConfigData)
	if _, err = toml.Decode(string(bytes), config); err != nil {
		log.WithField("error", err).Warn("problem parsing configuration file")
		return nil, fmt.Errorf("there has been an error parsing the configuration file: %v", err)
	}

	config.DirectionFile = os.ExpandEnv(config.DirectionFile)
	config.ElevationFile = os.ExpandEnv(config.ElevationFile)
	config.OutputFile = os.ExpandEnv(config.OutputFile)
	config.LogFile = os.ExpandEnv(config.LogFile)
	config.LineShapefile = os.ExpandEnv(config.LineShapefile)

	log.Info("configuration file loaded")
	return config, nil
}
