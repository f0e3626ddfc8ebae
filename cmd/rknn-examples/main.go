package main

import (
	"context"
	"log/slog"

	rknnapi "github.com/rknn-go/go-rknnapi"
	"github.com/rknn-go/go-rknnapi/cmd"
	"github.com/rknn-go/go-rknnapi/driver"
	"github.com/rknn-go/go-rknnapi/preprocess"
	"github.com/rknn-go/go-rknnapi/preprocess/cvimage"
	"github.com/spf13/cobra"
)

func openRuntime(modelFile string) (driver.Engine, error) {

	rt, err := rknnapi.OpenWithLogger(modelFile, slog.Default())

	if err != nil {
		// a nil *Runtime must not be returned as a non nil Engine
		return nil, err
	}

	return rt, nil
}

func main() {

	cli := cmd.NewCLI(cmd.Deps{
		Open: openRuntime,
		Decoders: map[string]preprocess.Decoder{
			"go":     preprocess.ImageDecoder{},
			"opencv": cvimage.Decoder{},
		},
		DecoderNames: []string{"go", "opencv"},
	})

	cobra.CheckErr(cli.ExecuteContext(context.Background()))
}
