package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWidth      = flag.Int("width", 0, "Raster width in pixels for -out renders")
	flagHeight     = flag.Int("height", 0, "Raster height in pixels for -out renders")
	flagMode       = flag.String("mode", "", "Render mode: rasterize or raytrace")
	flagProjection = flag.String("projection", "", "Projection: perspective or orthographic")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWidth > 0 {
		cfg.Display.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Display.Height = *flagHeight
	}
	if *flagMode != "" {
		cfg.View.RenderMode = *flagMode
	}
	if *flagProjection != "" {
		cfg.View.Projection = *flagProjection
	}
}
