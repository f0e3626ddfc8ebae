// Package assets downloads the sample images and per platform models the
// examples run against from the rknn-toolkit2 repository.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/rknn-go/go-rknnapi/sdk"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the raw file root of the rknn-toolkit2 repository
const DefaultBaseURL = "https://raw.githubusercontent.com/airockchip/rknn-toolkit2/refs/heads/master/"

// Platforms lists the platforms models are published for. rk3566 and rk3568
// share one set of models.
var Platforms = []string{"rk3562", "rk3566_rk3568", "rk3576", "rk3588"}

// Asset is a file in the toolkit repository and where it is saved locally
type Asset struct {
	// Source is the path relative to the base URL
	Source string
	// File is the path relative to the download directory
	File string
}

// Images returns the sample images
func Images() []Asset {
	return []Asset{
		{"rknpu2/examples/rknn_common_test/model/cat_224x224.jpg", "test-data/cat_224x224.jpg"},
		{"rknpu2/examples/rknn_common_test/model/dog_224x224.jpg", "test-data/dog_224x224.jpg"},
		{"rknn-toolkit-lite2/examples/resnet18/space_shuttle_224.jpg", "test-data/space_shuttle_224.jpg"},
	}
}

// Models returns the models compiled for platform
func Models(platform string) ([]Asset, error) {

	platform = strings.ToLower(strings.TrimSpace(platform))

	if !slices.Contains(Platforms, platform) {
		return nil, fmt.Errorf("%w: no models for platform %q, expected one of %s",
			sdk.ErrConfiguration, platform, strings.Join(Platforms, "|"))
	}

	upper := strings.ToUpper(platform)

	return []Asset{
		{
			"rknpu2/examples/rknn_dynamic_shape_input_demo/model/" + upper + "/mobilenet_v2.rknn",
			"models/mobilenet_v2_for_" + platform + ".rknn",
		},
		{
			"rknn-toolkit-lite2/examples/resnet18/resnet18_for_" + platform + ".rknn",
			"models/resnet18_for_" + platform + ".rknn",
		},
		{
			"rknpu2/examples/rknn_common_test/model/" + upper + "/mobilenet_v1.rknn",
			"models/mobilenet_v1_for_" + platform + ".rknn",
		},
	}, nil
}

// runtimeRoot is where the prebuilt runtime library and headers are kept
const runtimeRoot = "rknpu2/runtime/Linux/librknn_api/"

// RuntimeArchs lists the CPU architectures librknnrt is published for
var RuntimeArchs = []string{"aarch64", "armhf"}

// Runtime returns the librknnrt shared library for arch and the headers
// needed to build the cgo binding, saved under vendor/lib and
// vendor/include
func Runtime(arch string) ([]Asset, error) {

	arch = strings.ToLower(strings.TrimSpace(arch))

	if !slices.Contains(RuntimeArchs, arch) {
		return nil, fmt.Errorf("%w: no runtime library for arch %q, expected one of %s",
			sdk.ErrConfiguration, arch, strings.Join(RuntimeArchs, "|"))
	}

	list := []Asset{
		{runtimeRoot + arch + "/librknnrt.so", "vendor/lib/librknnrt.so"},
	}

	for _, h := range []string{"rknn_api.h", "rknn_custom_op.h", "rknn_matmul_api.h"} {
		list = append(list, Asset{runtimeRoot + "include/" + h, "vendor/include/" + h})
	}

	return list, nil
}

// List returns the sample images followed by the models of each platform
func List(platforms []string) ([]Asset, error) {

	list := Images()

	for _, p := range platforms {
		models, err := Models(p)

		if err != nil {
			return nil, err
		}

		list = append(list, models...)
	}

	return list, nil
}

// DefaultParallel is the number of files downloaded at once
const DefaultParallel = 4

// Fetcher downloads assets into a directory, skipping files already present
type Fetcher struct {
	// BaseURL is prepended to each Asset.Source, DefaultBaseURL when empty
	BaseURL string
	// Dir is the download directory
	Dir string
	// Client defaults to http.DefaultClient
	Client *http.Client
	// Parallel defaults to DefaultParallel
	Parallel int
	Log      *slog.Logger
}

// Fetch downloads every asset not already on disk and returns the local
// paths of the files it downloaded. Files are written to a temporary name
// and renamed into place, so an interrupted fetch never leaves a partial
// file behind under the final name.
func (f *Fetcher) Fetch(ctx context.Context, assets []Asset) ([]string, error) {

	log := f.Log

	if log == nil {
		log = slog.Default()
	}

	parallel := f.Parallel

	if parallel <= 0 {
		parallel = DefaultParallel
	}

	var (
		mu      sync.Mutex
		fetched = make([]bool, len(assets))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, a := range assets {
		i, a := i, a

		g.Go(func() error {
			ok, err := f.fetch(ctx, log, a)

			if err != nil {
				return err
			}

			mu.Lock()
			fetched[i] = ok
			mu.Unlock()

			return nil
		})
	}

	err := g.Wait()

	var files []string

	for i, ok := range fetched {
		if ok {
			files = append(files, filepath.Join(f.Dir, assets[i].File))
		}
	}

	return files, err
}

// fetch downloads one asset, returning false when it already existed
func (f *Fetcher) fetch(ctx context.Context, log *slog.Logger, a Asset) (bool, error) {

	dst := filepath.Join(f.Dir, filepath.FromSlash(a.File))

	if _, err := os.Stat(dst); err == nil {
		log.Debug("asset present", "file", dst)
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("%w: %w", sdk.ErrIO, err)
	}

	base := f.BaseURL

	if base == "" {
		base = DefaultBaseURL
	}

	url := strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(a.Source, "/")

	client := f.Client

	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return false, err
	}

	resp, err := client.Do(req)

	if err != nil {
		return false, fmt.Errorf("%w: failed to fetch %s: %w", sdk.ErrIO, url, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: failed to fetch %s: %s", sdk.ErrIO, url, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, fmt.Errorf("%w: %w", sdk.ErrIO, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".partial-*")

	if err != nil {
		return false, fmt.Errorf("%w: %w", sdk.ErrIO, err)
	}

	// no-op once the rename has happened
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)

	if cerr := tmp.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return false, fmt.Errorf("%w: failed writing %s: %w", sdk.ErrIO, dst, err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return false, fmt.Errorf("%w: %w", sdk.ErrIO, err)
	}

	log.Info("downloaded asset", "file", dst, "bytes", n)

	return true, nil
}
