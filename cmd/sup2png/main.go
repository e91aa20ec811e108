// Command sup2png inspects SUP subtitle files and exports their bitmaps as
// PNG images.
//
// Usage:
//
//	sup2png -input movie.sup -list
//	sup2png -input movie.sup -output frames/
//	sup2png -input movie.sup -output frames/ -index 42 -gray
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/supkit/pgs"
	"github.com/supkit/pgs/display"
	"github.com/supkit/pgs/render"
)

func main() {
	var inputFile = flag.String("input", "", "Input SUP file")
	var outputDir = flag.String("output", "", "Output directory for PNG files (defaults to the input file's directory)")
	var index = flag.Int("index", -1, "Display set index to export, -1 for all")
	var gray = flag.Bool("gray", false, "Render inverted grayscale instead of color")
	var list = flag.Bool("list", false, "List display sets without exporting")
	flag.Parse()

	if *inputFile == "" {
		log.Fatal("Input file is required. Use -input flag.")
	}

	sets, err := pgs.ReadFile(*inputFile)
	if err != nil {
		log.Fatalf("Failed to decode %s: %v", *inputFile, err)
	}

	if *list {
		listSets(sets)
		return
	}

	if *index >= len(sets) {
		log.Fatalf("Display set index %d out of range: file has %d sets", *index, len(sets))
	}

	output := *outputDir
	if output == "" {
		output = filepath.Dir(*inputFile)
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	exported := 0
	for i, set := range sets {
		if *index >= 0 && i != *index {
			continue
		}

		n, err := exportSet(output, i, set, *gray)
		if err != nil {
			log.Fatalf("Failed to export display set %d: %v", i, err)
		}
		exported += n
	}

	fmt.Printf("Exported %d images from %s\n", exported, *inputFile)
}

// listSets prints one line per display set: index, presentation time,
// composition state, and the dimensions of every object it defines.
func listSets(sets []*display.Set) {
	fmt.Printf("Found %d display sets:\n", len(sets))
	for i, set := range sets {
		fmt.Printf("  %4d: pts=%s state=%-17s objects=%s\n",
			i, timecode(set.PTS), set.Composition.State, objectDims(set))
	}
}

// timecode formats a 90 kHz timestamp as hh:mm:ss.mmm.
func timecode(pts uint32) string {
	const clock = 90000

	seconds := pts / clock
	millis := pts % clock * 1000 / clock

	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		seconds/3600, seconds/60%60, seconds%60, millis)
}

func objectDims(set *display.Set) string {
	if len(set.Objects) == 0 {
		return "none"
	}

	out := ""
	for _, id := range slices.Sorted(maps.Keys(set.Objects)) {
		obj := set.Objects[id]
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%d:%dx%d", id, obj.Width, obj.Height)
	}

	return out
}

// exportSet renders every object in the set to dir and reports how many
// images it wrote. Zero-sized objects are skipped.
func exportSet(dir string, index int, set *display.Set, gray bool) (int, error) {
	pal := set.Palette()
	if len(set.Objects) > 0 && pal == nil {
		return 0, fmt.Errorf("objects present but palette %d undefined", set.Composition.PaletteID)
	}

	count := 0
	for _, id := range slices.Sorted(maps.Keys(set.Objects)) {
		obj := set.Objects[id]
		if obj.Width == 0 || obj.Height == 0 {
			continue
		}

		var img image.Image
		var err error
		if gray {
			img, err = render.ObjectGray(obj, pal)
		} else {
			img, err = render.ObjectNRGBA(obj, pal)
		}
		if err != nil {
			return count, err
		}

		name := fmt.Sprintf("set%04d_obj%d.png", index, id)
		if err := writePNG(filepath.Join(dir, name), img); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
