// Package export runs an extraction and lays the result out on disk as a
// model directory:
//
//	<output_dir>/<model>/model.sdf (or model.urdf)
//	<output_dir>/<model>/model.config
//	<output_dir>/<model>/meshes/<link>.stl   (copy_meshes only)
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/sdfexport/internal/cad"
	"github.com/Faultbox/sdfexport/internal/config"
	"github.com/Faultbox/sdfexport/internal/extract"
	"github.com/Faultbox/sdfexport/internal/topology"
	"github.com/Faultbox/sdfexport/pkg/formats"
	"github.com/Faultbox/sdfexport/pkg/sdf"
)

// MeshDir is the mesh sub-directory of a model directory.
const MeshDir = "meshes"

// Options controls a run.
type Options struct {
	Extract    extract.Options
	Dialect    formats.Dialect
	Format     formats.Options
	OutputDir  string
	CopyMeshes bool
	// Stamp writes the run time as a comment into the model file.
	Stamp bool
}

// OptionsFromConfig maps the export section of cfg onto Options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	d, err := cfg.Dialect()
	if err != nil {
		return Options{}, err
	}
	ec := cfg.Export

	xo := extract.Options{
		Scale:     ec.Scale,
		Precision: ec.Precision,
		MeshScale: ec.MeshScale,
		ModelName: ec.ModelName,
	}
	if ec.Material != nil {
		xo.Material = &sdf.Material{Name: ec.Material.Name, RGBA: ec.Material.RGBA}
	}

	return Options{
		Extract: xo,
		Dialect: d,
		Format: formats.Options{
			Precision:  ec.Precision,
			SDFVersion: ec.SDFVersion,
		},
		OutputDir:  ec.OutputDir,
		CopyMeshes: ec.CopyMeshes,
		Stamp:      ec.Stamp,
	}, nil
}

// Report describes a finished run.
type Report struct {
	RunID    string
	Model    string
	Dir      string
	Files    []string // Written files, relative to Dir
	Skipped  []extract.Skip
	Topology topology.Report
	Duration time.Duration
}

// Exporter writes model directories.
type Exporter struct {
	opts Options
	log  *zap.Logger
	now  func() time.Time
}

// New creates an exporter. A nil logger discards output.
func New(opts Options, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{opts: opts, log: log, now: time.Now}
}

// Analyze extracts the robot from s and checks its topology without writing
// anything.
func (e *Exporter) Analyze(s cad.Session) (*extract.Result, topology.Report, error) {
	return e.analyze(s, e.log)
}

func (e *Exporter) analyze(s cad.Session, log *zap.Logger) (*extract.Result, topology.Report, error) {
	res, err := extract.New(e.opts.Extract, log.Named("extract")).Extract(s)
	if err != nil {
		return nil, topology.Report{}, err
	}
	topo := topology.Analyze(res.Robot)
	for _, p := range topo.Problems() {
		log.Warn("topology problem", zap.String("model", res.Robot.Name), zap.String("problem", p))
	}
	return res, topo, nil
}

// Run extracts the robot from s and writes its model directory.
func (e *Exporter) Run(s cad.Session) (*Report, error) {
	start := e.now()
	runID := uuid.NewString()
	log := e.log.With(zap.String("run", runID))

	res, topo, err := e.analyze(s, log)
	if err != nil {
		return nil, err
	}
	robot := res.Robot

	dir := filepath.Join(e.opts.OutputDir, robot.Name)
	st, err := newStage(dir)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	defer func() {
		if err := st.discard(); err != nil {
			log.Warn("scratch directory not removed", zap.String("dir", st.dir), zap.Error(err))
		}
	}()

	report := &Report{
		RunID:    runID,
		Model:    robot.Name,
		Dir:      dir,
		Skipped:  res.Skipped,
		Topology: topo,
	}

	fopts := e.opts.Format
	fopts.ModelName = robot.Name
	if e.opts.Stamp {
		fopts.Stamp = start
	}

	modelFile := e.opts.Dialect.FileName()
	err = st.write(modelFile, func(w io.Writer) error {
		return formats.Write(w, e.opts.Dialect, robot, fopts)
	})
	if err != nil {
		return nil, fmt.Errorf("export: %s: %w", modelFile, err)
	}

	manifest := formats.NewManifest(robot.Name, e.opts.Dialect, fopts.SDFVersion)
	err = st.write(formats.ManifestFileName, func(w io.Writer) error {
		return formats.WriteManifest(w, manifest)
	})
	if err != nil {
		return nil, fmt.Errorf("export: %s: %w", formats.ManifestFileName, err)
	}

	if e.opts.CopyMeshes {
		if err := stageMeshes(st, res.Meshes, log); err != nil {
			return nil, err
		}
	}

	// The model directory is only touched from here on.
	if err := st.commit(); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	report.Files = st.files

	report.Duration = e.now().Sub(start)
	log.Info("model exported",
		zap.String("model", robot.Name),
		zap.String("dir", dir),
		zap.String("dialect", e.opts.Dialect.String()),
		zap.Int("files", len(report.Files)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Duration("took", report.Duration))
	return report, nil
}

func stageMeshes(st *stage, meshes map[string]string, log *zap.Logger) error {
	links := make([]string, 0, len(meshes))
	for link := range meshes {
		links = append(links, link)
	}
	slices.Sort(links)
	for _, link := range links {
		rel := filepath.Join(MeshDir, link+".stl")
		if err := st.copy(rel, meshes[link]); err != nil {
			return fmt.Errorf("export: mesh of %s: %w", link, err)
		}
		log.Debug("mesh staged", zap.String("link", link), zap.String("src", meshes[link]))
	}
	return nil
}
