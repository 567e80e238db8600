// Command projectilesim is the CLI front end for the flight simulator: it
// can fly a single shot, run one of the named scenarios in package
// scenario, render a forces.csv to PNG, or convert a trajectory CSV to KMZ.
package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"projectilesim/atmosphere"
	"projectilesim/environment"
	"projectilesim/force"
	"projectilesim/internal/logging"
	"projectilesim/io/kml"
	plotio "projectilesim/io/plot"
	"projectilesim/launcher"
	"projectilesim/projectile"
	"projectilesim/scenario"
)

var (
	cfgFile  string
	logLevel string
	logFile  string
	v        = viper.New()
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, color.YellowString("notice: no .env file loaded: %v", err))
	}

	root := &cobra.Command{
		Use:   "projectilesim",
		Short: "Ballistic projectile flight simulator",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML/TOML/JSON)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path (default stdout)")

	root.AddCommand(newRunCmd(), newScenarioCmd(), newPlotCmd(), newKMZCmd(), newAtmosphereCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func loadConfig() error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
	}
	v.SetEnvPrefix("PROJSIM")
	v.AutomaticEnv()
	return nil
}

func newRunCmd() *cobra.Command {
	var (
		mass, pitchDeg, yawDeg, velocity float64
		latDeg, lonDeg, alt, dt          float64
		outDir                           string
		keepCSV                          bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fly a single unpowered or thrust-free shot and write its trajectory/KMZ",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			log := logging.New(logLevel, logFile)

			env, err := environment.New(environment.WithForces(force.DefaultForces()...))
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			dir := filepath.Join(outDir, runID)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			l, err := launcher.New(radiansMain(pitchDeg), radiansMain(yawDeg),
				filepath.Join(dir, "trajectory.csv"), filepath.Join(dir, "flight"),
				launcher.WithEnvironment(env),
				launcher.WithDt(dt),
				launcher.WithKeepCSV(keepCSV),
				launcher.WithForcesCSV(filepath.Join(dir, "forces.csv")),
				launcher.WithLogger(log),
			)
			if err != nil {
				return err
			}

			pos := projectile.NewPosition(radiansMain(latDeg), radiansMain(lonDeg), alt)
			final, err := l.Launch(mass, pos, velocity)
			if err != nil {
				return err
			}

			fmt.Println(color.GreenString("flight complete"))
			fmt.Printf("  run id:       %s\n", runID)
			fmt.Printf("  flight time:  %.2fs\n", final.Time)
			fmt.Printf("  distance:     %.1fm\n", final.DistanceTravelled)
			fmt.Printf("  output:       %s\n", dir)
			return nil
		},
	}
	cmd.Flags().Float64Var(&mass, "mass", 10000, "projectile mass, kg")
	cmd.Flags().Float64Var(&pitchDeg, "pitch", 45, "launch pitch, degrees")
	cmd.Flags().Float64Var(&yawDeg, "yaw", 0, "launch yaw, degrees (0=east)")
	cmd.Flags().Float64Var(&velocity, "velocity", 0, "launch speed, m/s")
	cmd.Flags().Float64Var(&latDeg, "lat", 45, "initial latitude, degrees")
	cmd.Flags().Float64Var(&lonDeg, "lon", 45, "initial longitude, degrees")
	cmd.Flags().Float64Var(&alt, "alt", 80, "initial altitude, m")
	cmd.Flags().Float64Var(&dt, "dt", 0.01, "integration step, s")
	cmd.Flags().StringVar(&outDir, "out", "run_data", "output directory")
	cmd.Flags().BoolVar(&keepCSV, "keep-csv", true, "keep the intermediate trajectory CSV")
	return cmd
}

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario [name]",
		Short: "Run one of the named scenarios: " + joinNames(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			runner, ok := scenario.Catalog[args[0]]
			if !ok {
				return fmt.Errorf("unknown scenario %q (available: %s)", args[0], joinNames())
			}
			cfg, err := scenario.Load(v)
			if err != nil {
				return err
			}
			log := logging.New(logLevel, logFile)
			dir, err := runner(cfg, log)
			if err != nil {
				return err
			}
			fmt.Println(color.GreenString("scenario %s complete", args[0]))
			fmt.Printf("  output: %s\n", dir)
			return nil
		},
	}
	return cmd
}

func joinNames() string {
	names := scenario.Names()
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

func newPlotCmd() *cobra.Command {
	var forceIndex int
	var title, out string
	cmd := &cobra.Command{
		Use:   "plot [forces.csv]",
		Short: "Render one force's per-axis acceleration from a forces CSV to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = args[0] + ".png"
			}
			if title == "" {
				title = fmt.Sprintf("force %d", forceIndex)
			}
			if err := plotio.ForceAcceleration(args[0], forceIndex, title, out); err != nil {
				return err
			}
			fmt.Println(color.GreenString("wrote %s", out))
			return nil
		},
	}
	cmd.Flags().IntVar(&forceIndex, "force", 0, "zero-based index, in force-list order, of the force to plot")
	cmd.Flags().StringVar(&title, "title", "", "plot title")
	cmd.Flags().StringVar(&out, "out", "", "output PNG path (default <input>.png)")
	return cmd
}

func newKMZCmd() *cobra.Command {
	var sampleRate float64
	var keepKML bool
	var name string
	cmd := &cobra.Command{
		Use:   "kmz [trajectory.csv] [output.kmz]",
		Short: "Convert a trajectory CSV to a KMZ ground track",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kmlPath := args[1] + ".kml"
			if err := kml.ConvertToKMZ(args[0], kmlPath, args[1], name, sampleRate, keepKML); err != nil {
				return err
			}
			fmt.Println(color.GreenString("wrote %s", args[1]))
			return nil
		},
	}
	cmd.Flags().Float64Var(&sampleRate, "sample-rate", 10, "samples per second retained in the KML")
	cmd.Flags().BoolVar(&keepKML, "keep-kml", false, "keep the intermediate .kml file")
	cmd.Flags().StringVar(&name, "name", "flight", "KML document name")
	return cmd
}

func newAtmosphereCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "atmosphere",
		Short: "Print the standard atmosphere's density and pressure at each layer breakpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := environment.New()
			if err != nil {
				return err
			}
			breakpoints := []float64{
				atmosphere.Layer0, atmosphere.Layer1, atmosphere.Layer2, atmosphere.Layer3,
				atmosphere.Layer4, atmosphere.Layer5, atmosphere.Layer6,
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Altitude (m)", "Density (kg/m^3)", "Pressure (Pa)"})
			for _, h := range breakpoints {
				table.Append([]string{
					fmt.Sprintf("%.0f", h),
					fmt.Sprintf("%.6f", env.Density(h)),
					fmt.Sprintf("%.1f", env.Pressure(h)),
				})
			}
			table.Render()
			return nil
		},
	}
}

func radiansMain(deg float64) float64 { return deg * math.Pi / 180 }
