// meshview - 3D mesh viewer for the terminal and for PNG renders.
// Shows GLB/glTF models and saved mesh stores with a rasterizer or a ray
// tracer, in perspective or orthographic projection.
//
// Controls:
//
//	Arrows/WASD - Orbit around the focal point
//	Mouse drag  - Orbit
//	Scroll, +/- - Zoom in/out
//	R           - Toggle rasterize / ray trace
//	P           - Toggle perspective / orthographic
//	0           - Reset view
//	H/?         - Toggle HUD
//	Q/Esc       - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/taigrr/meshview/internal/config"
	"github.com/taigrr/meshview/internal/logger"
	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
	"github.com/taigrr/meshview/pkg/viewer"
	"go.uber.org/zap"
)

// storeExt is the file extension of the binary mesh store format.
const storeExt = ".mvs"

var (
	outPath     = flag.String("out", "", "Render one frame to this PNG file instead of opening the terminal view")
	exportPath  = flag.String("export", "", "Write the loaded scene to a .glb or "+storeExt+" file")
	fitView     = flag.Bool("fit", true, "Aim the camera at the loaded models")
	writeConfig = flag.Bool("write-config", false, "Save the effective configuration to the user config directory")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "meshview - 3D mesh viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: meshview [options] [model.glb|model.gltf|scene%s ...]\n\n", storeExt)
		fmt.Fprintf(os.Stderr, "With no models a unit cube is shown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Arrows/WASD - Orbit\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit\n")
		fmt.Fprintf(os.Stderr, "  Scroll, +/- - Zoom\n")
		fmt.Fprintf(os.Stderr, "  R           - Toggle rasterize / ray trace\n")
		fmt.Fprintf(os.Stderr, "  P           - Toggle perspective / orthographic\n")
		fmt.Fprintf(os.Stderr, "  0           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  H/?         - Toggle HUD\n")
		fmt.Fprintf(os.Stderr, "  Q/Esc       - Quit\n")
	}
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, paths []string) error {
	interactive := *outPath == ""

	// Console logs would tear the terminal view; log to file only there.
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, !interactive); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if *writeConfig {
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
	}

	scene, err := loadScene(paths)
	if err != nil {
		return err
	}
	logger.Info("scene loaded",
		zap.Int("meshes", scene.Len()),
		zap.Strings("files", paths))

	if *exportPath != "" {
		if err := exportScene(scene, *exportPath); err != nil {
			return err
		}
		logger.Info("scene exported", zap.String("path", *exportPath))
	}

	v := viewer.New(logger.Named("viewer"))
	reset := func() error {
		if err := cfg.Apply(v); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if *fitView && len(paths) > 0 {
			if lo, hi, ok := scene.Bounds(); ok {
				return v.FitView(lo, hi)
			}
			logger.Warn("fit requested but the scene has no vertices")
		}
		return nil
	}
	if err := reset(); err != nil {
		return err
	}

	if !interactive {
		return renderPNG(v, cfg, scene, *outPath)
	}
	return runTerminal(cfg, v, scene, reset)
}

// loadScene reads every model file into one store. With no files the scene
// is a single unit cube.
func loadScene(paths []string) (*models.Store, error) {
	scene := models.NewStore()
	if len(paths) == 0 {
		scene.Add(models.NewCube("cube", math3d.V3(0.5, 0.5, 0.5), 0.5, models.RGB{200, 120, 80}))
		return scene, nil
	}

	for _, path := range paths {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".glb", ".gltf":
			if _, err := scene.ImportGLB(path); err != nil {
				return nil, fmt.Errorf("load model: %w", err)
			}
		case storeExt:
			s := models.NewStore()
			if err := s.Load(path); err != nil {
				return nil, err
			}
			scene.Merge(s)
		default:
			return nil, fmt.Errorf("unsupported format: %s (use .glb, .gltf or %s)", ext, storeExt)
		}
	}
	if scene.Len() == 0 {
		return nil, errors.New("no meshes in the given files")
	}
	return scene, nil
}

func exportScene(scene *models.Store, path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb":
		return scene.ExportGLB(path)
	case storeExt:
		return scene.Save(path)
	default:
		return fmt.Errorf("unsupported export format: %s (use .glb or %s)", ext, storeExt)
	}
}

func renderPNG(v *viewer.Viewer, cfg *config.Config, scene *models.Store, path string) error {
	d := cfg.RenderDisplay()
	start := time.Now()
	raster, err := v.Render(d, scene)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := raster.SavePNG(path); err != nil {
		return err
	}
	logger.Info("frame rendered",
		zap.String("path", path),
		zap.Stringer("mode", v.RenderMode()),
		zap.Stringer("projection", v.ProjectionMode()),
		zap.Int("width", d.Width),
		zap.Int("height", d.Height),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
