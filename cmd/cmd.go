// Package cmd implements the rknn-examples command line
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/rknn-go/go-rknnapi/affinity"
	"github.com/rknn-go/go-rknnapi/assets"
	"github.com/rknn-go/go-rknnapi/driver"
	"github.com/rknn-go/go-rknnapi/envconfig"
	"github.com/rknn-go/go-rknnapi/logutil"
	"github.com/rknn-go/go-rknnapi/postprocess"
	"github.com/rknn-go/go-rknnapi/preprocess"
	"github.com/rknn-go/go-rknnapi/sdk"
	"github.com/spf13/cobra"
)

// Deps are the runtime pieces the commands are built on. main supplies the
// cgo backed implementations.
type Deps struct {
	// Open loads a model into a runtime context
	Open driver.Opener
	// Decoders maps a --decoder name to its image decoder, the first entry
	// of DecoderNames is the default
	Decoders map[string]preprocess.Decoder
	// DecoderNames lists the keys of Decoders in the order they are offered
	DecoderNames []string
}

func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {

	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// withBanner prints Done! or Ooops! once the command has run
func withBanner(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {

		err := run(cmd, args)

		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Ooops!")
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Done!")
		return nil
	}
}

// NewCLI returns the root command
func NewCLI(deps Deps) *cobra.Command {

	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "rknn-examples",
		Short:         "Run RKNN models on the Rockchip NPU",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), envconfig.LogLevel()))
		},
	}

	dynshapeCmd := newDynshapeCmd(deps)
	queryCmd := newQueryCmd(deps)
	fetchCmd := newFetchAssetsCmd()

	envVars := envconfig.AsMap()

	appendEnvDocs(dynshapeCmd, []envconfig.EnvVar{
		envVars["RKNN_DEBUG"],
		envVars["RKNN_CORE_MASK"],
		envVars["RKNN_LOOP_COUNT"],
		envVars["RKNN_PLATFORM"],
	})
	appendEnvDocs(queryCmd, []envconfig.EnvVar{envVars["RKNN_DEBUG"]})
	appendEnvDocs(fetchCmd, []envconfig.EnvVar{
		envVars["RKNN_DEBUG"],
		envVars["RKNN_PLATFORM"],
		envVars["RKNN_DATA_DIR"],
		envVars["RKNN_ASSETS_URL"],
	})

	rootCmd.AddCommand(dynshapeCmd, queryCmd, fetchCmd)

	return rootCmd
}

func newDynshapeCmd(deps Deps) *cobra.Command {

	var (
		modelFile    string
		inputFiles   []string
		loops        int
		outputDir    string
		labelsFile   string
		decoderName  string
		onShapeError string
		cpuPlatform  string
		cpuCores     string
		nativeOut    bool
	)

	coreMask := envconfig.CoreMask()
	defaultDecoder := ""

	if len(deps.DecoderNames) > 0 {
		defaultDecoder = deps.DecoderNames[0]
	}

	cmd := &cobra.Command{
		Use:   "dynshape-inference",
		Short: "Run a dynamic input shape model through every shape it supports",
		Args:  cobra.NoArgs,
		RunE: withBanner(func(cmd *cobra.Command, args []string) error {

			if cpuPlatform != "" {
				// the runtime's C calls and worker threads stay on the pinned
				// thread. It is left locked so it exits with this goroutine
				// instead of going back to the scheduler still pinned.
				runtime.LockOSThread()

				if err := pinCPU(cpuPlatform, cpuCores); err != nil {
					runtime.UnlockOSThread()
					return err
				}
			}

			dec, ok := deps.Decoders[decoderName]

			if !ok {
				return fmt.Errorf("%w: unknown decoder %q, expected %s",
					sdk.ErrConfiguration, decoderName, strings.Join(deps.DecoderNames, "|"))
			}

			policy, err := driver.ParseShapeErrorPolicy(onShapeError)

			if err != nil {
				return err
			}

			var labels []string

			if labelsFile != "" {
				labels, err = postprocess.LoadLabels(labelsFile)

				if err != nil {
					return err
				}
			}

			if outputDir != "" {
				slog.Debug("output directory is accepted but no files are written", "dir", outputDir)
			}

			d := driver.New(deps.Open, slog.Default(), cmd.OutOrStdout())

			_, err = d.Run(driver.Config{
				ModelFile:     modelFile,
				InputFiles:    inputFiles,
				LoopCount:     loops,
				CoreMask:      coreMask,
				OnShapeError:  policy,
				Decoder:       dec,
				Labels:        labels,
				NativeOutputs: nativeOut,
			})

			return err
		}),
	}

	cmd.Flags().StringVarP(&modelFile, "model", "m", "", "RKNN compiled model file")
	cmd.Flags().StringArrayVarP(&inputFiles, "input", "i", nil,
		"Input image file, repeat once per model input in input index order")
	cmd.Flags().IntVarP(&loops, "loops", "l", int(envconfig.LoopCount()), "Number of timed inference runs per shape")
	cmd.Flags().VarP(&coreMask, "core", "c",
		"NPU core mask, one of "+strings.Join(sdk.CoreMaskNames(), "|"))
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (unused)")
	cmd.Flags().StringVar(&labelsFile, "labels", "", "Optional labels file, one class label per line")
	cmd.Flags().StringVar(&decoderName, "decoder", defaultDecoder,
		"Image decoder, one of "+strings.Join(deps.DecoderNames, "|"))
	cmd.Flags().StringVar(&onShapeError, "on-shape-error", driver.ShapeErrorHalt.String(),
		"What to do when the runtime rejects a shape, halt|continue")
	cmd.Flags().StringVar(&cpuPlatform, "cpu-platform", envconfig.Platform(),
		"Pin to the CPU cores of this platform, one of "+strings.Join(affinity.Platforms(), "|"))
	cmd.Flags().StringVar(&cpuCores, "cpu-cores", affinity.FastCores.String(),
		"CPU cores to pin to, fast|slow|all")
	cmd.Flags().BoolVar(&nativeOut, "native-outputs", false,
		"Fetch outputs in the model's own type and dequantize them in Go")

	cmd.MarkFlagRequired("model")
	cmd.MarkFlagRequired("input")

	return cmd
}

// setAffinity pins the calling thread to a platform's cores
var setAffinity = affinity.SetByPlatform

func pinCPU(platform, cores string) error {

	ct, err := affinity.ParseCoreType(cores)

	if err != nil {
		return err
	}

	if err := setAffinity(platform, ct); err != nil {
		return err
	}

	slog.Info("pinned CPU affinity", "platform", platform, "cores", ct)

	return nil
}

func newQueryCmd(deps Deps) *cobra.Command {

	var modelFile string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the SDK version, tensors and dynamic input ranges of a model",
		Args:  cobra.NoArgs,
		RunE: withBanner(func(cmd *cobra.Command, args []string) (err error) {

			eng, err := deps.Open(modelFile)

			if err != nil {
				return fmt.Errorf("error loading model: %w", err)
			}

			defer func() {
				err = errors.Join(err, eng.Close())
			}()

			return driver.Describe(cmd.OutOrStdout(), eng)
		}),
	}

	cmd.Flags().StringVarP(&modelFile, "model", "m", "", "RKNN compiled model file")
	cmd.MarkFlagRequired("model")

	return cmd
}

func newFetchAssetsCmd() *cobra.Command {

	var (
		dir         string
		platforms   []string
		baseURL     string
		withRuntime bool
		arch        string
	)

	cmd := &cobra.Command{
		Use:   "fetch-assets",
		Short: "Download the sample images and models",
		Args:  cobra.NoArgs,
		RunE: withBanner(func(cmd *cobra.Command, args []string) error {

			if len(platforms) == 0 {
				if p := envconfig.Platform(); p != "" {
					platforms = []string{modelPlatform(p)}
				}
			}

			list, err := assets.List(platforms)

			if err != nil {
				return err
			}

			if withRuntime {
				rt, err := assets.Runtime(arch)

				if err != nil {
					return err
				}

				list = append(list, rt...)
			}

			f := &assets.Fetcher{BaseURL: baseURL, Dir: dir, Log: slog.Default()}

			files, err := f.Fetch(cmd.Context(), list)

			for _, file := range files {
				fmt.Fprintln(cmd.OutOrStdout(), file)
			}

			return err
		}),
	}

	cmd.Flags().StringVar(&dir, "dir", envconfig.DataDir(), "Directory to save files to")
	cmd.Flags().StringSliceVar(&platforms, "platform", nil,
		"Platforms to fetch models for, any of "+strings.Join(assets.Platforms, "|"))
	cmd.Flags().StringVar(&baseURL, "url", envconfig.AssetsURL(), "Base URL to fetch from")
	cmd.Flags().BoolVar(&withRuntime, "runtime", false,
		"Also fetch librknnrt.so and the headers the cgo build needs")
	cmd.Flags().StringVar(&arch, "arch", runtimeArch(runtime.GOARCH),
		"Runtime library architecture, one of "+strings.Join(assets.RuntimeArchs, "|"))

	return cmd
}

// runtimeArch maps a GOARCH to the directory librknnrt is published under
func runtimeArch(goarch string) string {

	if goarch == "arm" {
		return "armhf"
	}

	return "aarch64"
}

// modelPlatform maps a SoC name to the platform its models are published
// under
func modelPlatform(soc string) string {

	soc = strings.ToLower(strings.TrimSpace(soc))

	switch soc {
	case "rk3566", "rk3568":
		return "rk3566_rk3568"
	case "rk3582":
		return "rk3588"
	}

	return soc
}
