package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/menta2k/cropbox"
	"github.com/menta2k/cropbox/pkg/aspect"
	"github.com/menta2k/cropbox/pkg/crop"
)

const usage = `usage: cropbox -op OPERATION [flags]

operations:
  percent   convert -crop to percent
  pixel     convert -crop to pixels
  aspect    apply the crop aspect and fit it to the image
  resolve   complete an aspect-locked crop missing width or height
  contain   pull -crop back inside the image (-prev is the crop before the drag)
  max       largest crop reachable by dragging handle -ord
  center    center -crop on the image
  valid     report whether -crop has a usable size
  equal     compare -crop with -prev
  suggest   suggest a crop with -aspect over the subject of -in
  apply     cut -crop out of -in and write it to -out

`

var errDegenerateCrop = errors.New("degenerate crop")

type options struct {
	op      string
	crop    string
	prev    string
	ord     string
	in      string
	out     string
	overlay string
	ratio   string
	config  string
	width   float64
	height  float64
	debug   bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var opts options

	fs := flag.NewFlagSet("cropbox", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.op, "op", "", "operation to run (see above)")
	fs.StringVar(&opts.crop, "crop", "", `crop as JSON, e.g. {"x":10,"y":10,"width":50,"unit":"%"}`)
	fs.StringVar(&opts.prev, "prev", "", "previous crop as JSON (contain, equal)")
	fs.StringVar(&opts.ord, "ord", "se", "resize handle: n|ne|e|se|s|sw|w|nw")
	fs.Float64Var(&opts.width, "iw", 0, "image width in pixels")
	fs.Float64Var(&opts.height, "ih", 0, "image height in pixels")
	fs.StringVar(&opts.in, "in", "", "input image (jpg/png/gif/webp); its size is used when -iw/-ih are not set")
	fs.StringVar(&opts.ratio, "aspect", "", `aspect ratio applied to -crop: "16:9", "1.5" or a preset name`)
	fs.StringVar(&opts.out, "out", "", "output image for apply (default from config)")
	fs.StringVar(&opts.overlay, "overlay", "", "also write the input with the crop outline drawn on it")
	fs.StringVar(&opts.config, "config", "", "config file (yaml or json)")
	fs.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	if opts.op == "" {
		fs.Usage()
		return fmt.Errorf("missing -op")
	}

	editor, err := cropbox.Load(opts.config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	result, err := execute(editor, opts)
	if err != nil {
		return err
	}
	if c, ok := result.(crop.Crop); ok && !finite(c) {
		return fmt.Errorf("%w: %+v", errDegenerateCrop, c)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func execute(editor *cropbox.Editor, opts options) (any, error) {
	current, err := parseCrop(opts.crop)
	if err != nil {
		return nil, fmt.Errorf("invalid -crop: %w", err)
	}
	if opts.ratio != "" {
		ratio, err := aspect.Parse(opts.ratio)
		if err != nil {
			return nil, err
		}
		current.Aspect = ratio
	}

	switch strings.ToLower(opts.op) {
	case "valid":
		return map[string]bool{"valid": crop.IsValid(current)}, nil
	case "equal":
		previous, err := parseCrop(opts.prev)
		if err != nil {
			return nil, fmt.Errorf("invalid -prev: %w", err)
		}
		return map[string]bool{"equal": crop.AreEqual(current, previous)}, nil
	case "suggest":
		return suggest(editor, opts, current)
	case "apply":
		return apply(editor, opts, current)
	}

	iw, ih, err := imageSize(editor, opts)
	if err != nil {
		return nil, err
	}
	slog.Debug("image size", "width", iw, "height", ih, "op", opts.op)

	switch strings.ToLower(opts.op) {
	case "percent":
		return crop.ToPercent(current, iw, ih), nil
	case "pixel":
		return crop.ToPixel(current, iw, ih), nil
	case "aspect":
		if err := crop.ValidateAspect(current); err != nil {
			return nil, err
		}
		return crop.MakeAspect(current, iw, ih), nil
	case "resolve":
		return crop.Resolve(current, iw, ih), nil
	case "contain":
		previous, err := parseCrop(opts.prev)
		if err != nil {
			return nil, fmt.Errorf("invalid -prev: %w", err)
		}
		return crop.Contain(previous, current, iw, ih), nil
	case "max":
		ord, err := crop.ParseOrdinal(opts.ord)
		if err != nil {
			return nil, err
		}
		return crop.MaxCrop(crop.ToPixel(current, iw, ih), ord, iw, ih), nil
	case "center":
		return crop.Center(current, iw, ih), nil
	}

	return nil, fmt.Errorf("unknown operation %q", opts.op)
}

func suggest(editor *cropbox.Editor, opts options, current crop.Crop) (any, error) {
	if opts.in == "" {
		return nil, fmt.Errorf("suggest needs -in")
	}
	img, err := editor.LoadImage(opts.in)
	if err != nil {
		return nil, err
	}
	return editor.Suggest(img, current.Aspect)
}

type applyResult struct {
	Crop    crop.Crop `json:"crop"`
	Output  string    `json:"output"`
	Overlay string    `json:"overlay,omitempty"`
}

func apply(editor *cropbox.Editor, opts options, current crop.Crop) (any, error) {
	if opts.in == "" {
		return nil, fmt.Errorf("apply needs -in")
	}
	img, err := editor.LoadImage(opts.in)
	if err != nil {
		return nil, err
	}

	info := editor.GetImageInfo(img)
	iw, ih := info.Size()
	resolved := crop.Resolve(current, iw, ih)
	resolved = crop.Contain(resolved, resolved, iw, ih)

	out := opts.out
	if out == "" {
		out = editor.OutputPath(opts.in, "")
	}
	if err := editor.Export(img, resolved, out); err != nil {
		return nil, err
	}
	slog.Info("wrote crop", "path", out)

	result := applyResult{Crop: resolved, Output: out}
	if opts.overlay != "" {
		if err := editor.Save(editor.Overlay(img, resolved), opts.overlay); err != nil {
			return nil, fmt.Errorf("overlay: %w", err)
		}
		result.Overlay = opts.overlay
	}
	return result, nil
}

func imageSize(editor *cropbox.Editor, opts options) (float64, float64, error) {
	if opts.width > 0 && opts.height > 0 {
		return opts.width, opts.height, nil
	}
	if opts.in == "" {
		return 0, 0, fmt.Errorf("-op %s needs -iw and -ih or -in", opts.op)
	}
	info, err := editor.Dimensions(opts.in)
	if err != nil {
		return 0, 0, err
	}
	w, h := info.Size()
	return w, h, nil
}

// finite reports whether every field of c can be written as JSON
func finite(c crop.Crop) bool {
	for _, v := range []float64{c.X, c.Y, c.Width, c.Height, c.Aspect} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func parseCrop(s string) (crop.Crop, error) {
	var c crop.Crop
	if strings.TrimSpace(s) == "" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return c, err
	}
	return c, nil
}
