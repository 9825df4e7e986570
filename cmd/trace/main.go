// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Trace renders a scene to image files. With no arguments it renders
// a built-in example scene into the current directory:
//
//	trace [-scene file.yaml] [-assets dir] [-out dir] [-samples n]
//
// The scene file format is documented in the load package. Output is
// color.png and color.bmp (tone mapped), one image per enabled
// auxiliary channel, and denoised.png when the denoiser guide
// channels are enabled.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gazed/trace"
	"github.com/gazed/trace/load"
	"github.com/gazed/trace/math/lin"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/term"
)

func main() {
	sceneFile := flag.String("scene", "", "YAML scene description; empty renders the built-in scene")
	assetDir := flag.String("assets", ".", "asset directory root")
	outDir := flag.String("out", ".", "output directory")
	samples := flag.Int("samples", 0, "override scene sample count")
	flag.Parse()

	log.SetFlags(0)
	if err := run(*sceneFile, *assetDir, *outDir, *samples); err != nil {
		fmt.Fprintf(os.Stderr, "trace: %+v\n", err)
		os.Exit(1)
	}
}

// run loads, renders, and writes one frame.
func run(sceneFile, assetDir, outDir string, samples int) error {
	world, cam, attrs, err := loadScene(sceneFile, assetDir)
	if err != nil {
		return err
	}
	if samples > 0 {
		attrs = append(attrs, trace.Samples(samples))
	}

	start := time.Now()
	attrs = append(attrs, trace.OnSample(func(out *trace.Output, sampleNum int) {
		progress(fmt.Sprintf("sample %d, %.1fs elapsed", sampleNum, time.Since(start).Seconds()))
	}))

	r := trace.NewRenderer(attrs...)
	out, err := r.RenderFrame(world, cam)
	if err != nil {
		return errors.Wrap(err, "render")
	}
	fmt.Println()
	log.Printf("rendered in %.1fs", time.Since(start).Seconds())

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(err, "output directory")
	}
	return writeOutputs(out, outDir)
}

// loadScene reads the scene file, or builds the example scene when
// none is given.
func loadScene(sceneFile, assetDir string) (*trace.World, *trace.Camera, []trace.Attr, error) {
	if sceneFile == "" {
		w, c, a := exampleScene()
		return w, c, a, nil
	}

	file, err := os.Open(sceneFile)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "open scene")
	}
	defer file.Close()

	s, err := load.Scene(file)
	if err != nil {
		return nil, nil, nil, err
	}
	return s.Build(load.NewLocator(assetDir))
}

// exampleScene is the hard-coded fallback: a glass, a metal, and a
// matte sphere on a gray floor under a warm area light.
func exampleScene() (*trace.World, *trace.Camera, []trace.Attr) {
	world := trace.NewWorld()
	world.Environment.Emission = lin.V3{X: 0.02, Y: 0.02, Z: 0.04}

	light := trace.NewTransformAt(lin.V3{Y: 3})
	light.SetScale(lin.V3{X: 2, Y: 1, Z: 2})

	world.Hierarchy.Add(
		trace.NewInfinitePlane(lin.V3{}, lin.V3{Y: 1},
			trace.NewLambert(lin.V3{X: 0.6, Y: 0.6, Z: 0.6})),
		trace.NewRect(light, trace.NewEmissive(lin.V3{X: 1, Y: 0.9, Z: 0.7}, 10)),
		trace.NewSphere(lin.V3{X: -1.1, Y: 0.5, Z: 0}, 0.5,
			trace.NewLambert(lin.V3{X: 0.7, Y: 0.2, Z: 0.2})),
		trace.NewSphere(lin.V3{Y: 0.5}, 0.5, trace.NewDielectric(1.5)),
		trace.NewSphere(lin.V3{X: 1.1, Y: 0.5, Z: 0}, 0.5,
			trace.NewMetal(lin.V3{X: 0.8, Y: 0.8, Z: 0.9}, 0.05)),
	)

	cam := trace.NewCamera()
	cam.Position = lin.V3{Y: 1.2, Z: 3.5}
	cam.LookAt = lin.V3{Y: 0.5}
	cam.FOV = 50
	cam.FocusDistance = 3.5

	attrs := []trace.Attr{
		trace.Size(640, 480),
		trace.Samples(128),
		trace.Bounces(16),
		trace.Channels(trace.ChanDenoise | trace.ChanDepth | trace.ChanEmission),
	}
	return world, cam, attrs
}

// writeOutputs saves every non-empty channel.
func writeOutputs(out *trace.Output, dir string) error {
	const gamma = 2.2

	color := trace.ToNRGBA(out.Color, gamma)
	if err := writePNG(dir, "color.png", color); err != nil {
		return err
	}
	if err := writeBMP(dir, "color.bmp", color); err != nil {
		return err
	}

	if !out.Normal.Empty() {
		if err := writePNG(dir, "normal.png", trace.VecToNRGBA(out.Normal)); err != nil {
			return err
		}
	}
	if !out.Albedo.Empty() {
		if err := writePNG(dir, "albedo.png", trace.ToNRGBA(out.Albedo, gamma)); err != nil {
			return err
		}
	}
	if !out.Emission.Empty() {
		if err := writePNG(dir, "emission.png", trace.ToNRGBA(out.Emission, gamma)); err != nil {
			return err
		}
	}
	if !out.Depth.Empty() {
		if err := writePNG(dir, "depth.png", trace.GrayToNRGBA(out.Depth)); err != nil {
			return err
		}
	}
	if !out.AABBTests.Empty() {
		if err := writePNG(dir, "aabb_tests.png", trace.GrayToNRGBA(out.AABBTests)); err != nil {
			return err
		}
	}
	if !out.TriTests.Empty() {
		if err := writePNG(dir, "tri_tests.png", trace.GrayToNRGBA(out.TriTests)); err != nil {
			return err
		}
	}

	// With the guide channels present run the denoise pass. The
	// passthrough denoiser keeps the file set stable until a real
	// OIDN binding is plugged in.
	if !out.Normal.Empty() && !out.Albedo.Empty() {
		var d trace.Denoiser = trace.NopDenoiser{}
		denoised, err := d.Denoise(out.Color, out.Albedo, out.Normal)
		if err != nil {
			return errors.Wrap(err, "denoise")
		}
		dimg := trace.ToNRGBA(denoised, gamma)
		if err := writePNG(dir, "denoised.png", dimg); err != nil {
			return err
		}
		if err := writeBMP(dir, "denoised.bmp", dimg); err != nil {
			return err
		}
	}
	return nil
}

// writePNG writes one image, logging the file name.
func writePNG(dir, name string, img *image.NRGBA) error {
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return errors.Wrapf(err, "encode %s", name)
	}
	log.Printf("wrote %s", path)
	return nil
}

// writeBMP writes one image in the bitmap format preview tools
// expect.
func writeBMP(dir, name string, img *image.NRGBA) error {
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	defer file.Close()
	if err := bmp.Encode(file, img); err != nil {
		return errors.Wrapf(err, "encode %s", name)
	}
	log.Printf("wrote %s", path)
	return nil
}

// progress rewrites the current terminal line, truncated to the
// terminal width so long status lines never wrap and scroll.
func progress(msg string) {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	if len(msg) >= width {
		msg = msg[:width-1]
	}
	fmt.Printf("\r%-*s", width-1, msg)
}
